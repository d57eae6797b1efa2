package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSilenceFilter(t *testing.T) {
	got := silenceFilter(DefaultSilenceOptions())

	for _, want := range []string{
		"silenceremove=",
		"stop_periods=-1",
		"stop_duration=0.500",
		"stop_threshold=-40dB",
		"stop_silence=0.100",
		"start_threshold=-40dB",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("filter %q missing %q", got, want)
		}
	}
}

func TestChunkPlan(t *testing.T) {
	tests := []struct {
		name  string
		total time.Duration
		chunk time.Duration
		want  int
		last  time.Duration
	}{
		{"exact multiple", 20 * time.Minute, 10 * time.Minute, 2, 20 * time.Minute},
		{"remainder", 25 * time.Minute, 10 * time.Minute, 3, 25 * time.Minute},
		{"shorter than chunk", 90 * time.Second, 10 * time.Minute, 1, 90 * time.Second},
		{"zero total", 0, time.Minute, 0, 0},
		{"zero chunk", time.Minute, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := chunkPlan(tt.total, tt.chunk)
			if len(plan) != tt.want {
				t.Fatalf("got %d chunks, want %d", len(plan), tt.want)
			}
			if len(plan) == 0 {
				return
			}
			if plan[0][0] != 0 {
				t.Errorf("first chunk starts at %v", plan[0][0])
			}
			if got := plan[len(plan)-1][1]; got != tt.last {
				t.Errorf("last chunk ends at %v, want %v", got, tt.last)
			}
			for i := 1; i < len(plan); i++ {
				if plan[i][0] != plan[i-1][1] {
					t.Errorf("gap between chunk %d and %d", i-1, i)
				}
			}
		})
	}
}

func TestCodecArgs(t *testing.T) {
	mp3 := codecArgs(DefaultCompressionOptions())
	if mp3["acodec"] != "libmp3lame" || mp3["b:a"] != "64k" || mp3["ar"] != 16000 || mp3["ac"] != 1 {
		t.Errorf("mp3 args = %v", mp3)
	}

	wav := codecArgs(EditingAudioOptions())
	if wav["acodec"] != "pcm_s16le" || wav["ar"] != 48000 || wav["ac"] != 2 {
		t.Errorf("wav args = %v", wav)
	}
	if _, ok := wav["b:a"]; ok {
		t.Error("wav should not carry a bitrate")
	}
}

func TestParseProbeDuration(t *testing.T) {
	got, err := parseProbeDuration([]byte(`{"format": {"duration": "12.500000"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12500*time.Millisecond {
		t.Errorf("duration = %v", got)
	}

	if _, err := parseProbeDuration([]byte(`{"format": {}}`)); err == nil {
		t.Error("expected error for missing duration")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dst := filepath.Join(dir, "premiere", "assets", "audio.wav")

	if err := os.WriteFile(src, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "RIFF" {
		t.Errorf("copied data = %q, err = %v", data, err)
	}
}

func TestMediaKinds(t *testing.T) {
	tests := []struct {
		path  string
		audio bool
		video bool
	}{
		{"voice.MP3", true, false},
		{"take.wav", true, false},
		{"clip.mov", false, true},
		{"notes.txt", false, false},
	}
	for _, tt := range tests {
		if IsAudioFile(tt.path) != tt.audio || IsVideoFile(tt.path) != tt.video {
			t.Errorf("%s: audio=%v video=%v", tt.path, IsAudioFile(tt.path), IsVideoFile(tt.path))
		}
		if IsMediaFile(tt.path) != (tt.audio || tt.video) {
			t.Errorf("%s: IsMediaFile mismatch", tt.path)
		}
	}
}
