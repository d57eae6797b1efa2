package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Preparer turns the input media into the narration kept with the project:
// audio is pulled out of video files and long pauses are optionally
// trimmed.
type Preparer struct {
	TrimSilence bool
	Silence     SilenceOptions
	ScratchDir  string
}

func NewPreparer(trim bool, silence SilenceOptions, scratchDir string) *Preparer {
	return &Preparer{TrimSilence: trim, Silence: silence, ScratchDir: scratchDir}
}

// OutputExt is the extension of the prepared file for a given input.
func (p *Preparer) OutputExt(inputPath string) string {
	if IsVideoFile(inputPath) {
		return ".wav"
	}
	return strings.ToLower(filepath.Ext(inputPath))
}

// Prepare writes the prepared narration to outputPath.
func (p *Preparer) Prepare(ctx context.Context, inputPath, outputPath string) error {
	if !IsMediaFile(inputPath) {
		return fmt.Errorf("unsupported media file: %s", inputPath)
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	source := inputPath
	if IsVideoFile(inputPath) {
		if err := os.MkdirAll(p.ScratchDir, 0755); err != nil {
			return fmt.Errorf("failed to create scratch directory: %w", err)
		}
		extracted := filepath.Join(p.ScratchDir, "extracted.wav")
		if err := ExtractAudio(ctx, inputPath, extracted, EditingAudioOptions()); err != nil {
			return err
		}
		defer os.Remove(extracted)
		source = extracted
	}

	if p.TrimSilence {
		return TrimSilence(ctx, source, outputPath, p.Silence)
	}
	return CopyFile(source, outputPath)
}
