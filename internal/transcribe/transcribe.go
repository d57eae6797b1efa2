package transcribe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/moodboard/internal/audio"
	"github.com/mgpai22/moodboard/internal/transcript"
)

// transcription result
type Result struct {
	Words    []transcript.Word
	Language string
	Duration time.Duration
}

// interface for word-level audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // source language of the narration, empty to auto-detect
	Model    string
	Prompt   string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// holds the result of transcribing a chunk
type chunkResult struct {
	Index int
	Words []transcript.Word
}

// TranscribeChunks transcribes chunks in parallel. Word timings are shifted
// by each chunk's start, merged in chunk order and renumbered. Any chunk
// failure cancels the rest and fails the whole transcription.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	resultChan := make(chan chunkResult, len(chunks))
	var language string
	languages := make([]string, len(chunks))

	for i, chunk := range chunks {
		g.Go(func() error {
			result, err := t.Transcribe(gctx, chunk.Path)
			if err != nil {
				return fmt.Errorf("chunk %d failed: %w", chunk.Index, err)
			}
			languages[i] = result.Language
			resultChan <- chunkResult{
				Index: chunk.Index,
				Words: transcript.Offset(result.Words, chunk.StartTime.Seconds()),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resultChan)

	results := make([]chunkResult, 0, len(chunks))
	for r := range resultChan {
		results = append(results, r)
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var merged []transcript.Word
	for _, r := range results {
		merged = append(merged, r.Words...)
	}

	for _, l := range languages {
		if l != "" {
			language = l
			break
		}
	}

	var duration time.Duration
	for _, c := range chunks {
		if c.EndTime > duration {
			duration = c.EndTime
		}
	}

	return &Result{
		Words:    transcript.NewWords(merged),
		Language: language,
		Duration: duration,
	}, nil
}
