package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	envFFmpegPath  = "MOODBOARD_FFMPEG_PATH"
	envFFprobePath = "MOODBOARD_FFPROBE_PATH"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = locate(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// locate prefers the MOODBOARD_* overrides and falls back to PATH.
func locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	ffmpegPath := getenv(envFFmpegPath)
	ffprobePath := getenv(envFFprobePath)

	if ffmpegPath == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			ffmpegPath = found
		}
	}
	if ffprobePath == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			ffprobePath = found
		}
	}

	switch {
	case ffmpegPath == "" && ffprobePath == "":
		return BinaryPaths{}, fmt.Errorf("ffmpeg and ffprobe not found: install them or set %s and %s", envFFmpegPath, envFFprobePath)
	case ffmpegPath == "":
		return BinaryPaths{}, fmt.Errorf("ffmpeg not found: install it or set %s", envFFmpegPath)
	case ffprobePath == "":
		return BinaryPaths{}, fmt.Errorf("ffprobe not found: install it or set %s", envFFprobePath)
	}

	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}
