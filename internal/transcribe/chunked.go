package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mgpai22/moodboard/internal/audio"
)

// Chunked compresses audio for upload and splits it when it is longer than
// ChunkDuration, transcribing the pieces concurrently.
type Chunked struct {
	Transcriber   Transcriber
	ChunkDuration time.Duration // 0 disables chunking
	Concurrency   int
	ScratchDir    string
}

func (c *Chunked) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if err := os.MkdirAll(c.ScratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	compressed := filepath.Join(c.ScratchDir, "transcription.mp3")
	if err := audio.CompressAudio(ctx, audioPath, compressed, audio.DefaultCompressionOptions()); err != nil {
		return nil, err
	}
	defer os.Remove(compressed)

	duration, err := audio.GetDuration(compressed)
	if err != nil {
		return nil, err
	}

	if c.ChunkDuration <= 0 || duration <= c.ChunkDuration {
		result, err := c.Transcriber.Transcribe(ctx, compressed)
		if err != nil {
			return nil, err
		}
		if result.Duration == 0 {
			result.Duration = duration
		}
		return result, nil
	}

	chunks, err := audio.ChunkAudio(ctx, compressed, c.ChunkDuration, filepath.Join(c.ScratchDir, "chunks"), 0)
	if err != nil {
		return nil, err
	}
	defer func() { _ = audio.CleanupChunks(chunks) }()

	return TranscribeChunks(ctx, c.Transcriber, chunks, c.Concurrency)
}
