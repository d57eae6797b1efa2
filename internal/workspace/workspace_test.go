package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

var day = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestAllocateLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")

	ws, err := Allocate(context.Background(), root, day)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if ws.Name != "project_001_2026-03-14" {
		t.Errorf("name = %q", ws.Name)
	}
	for _, dir := range []string{ws.AssetsDir(), ws.AnalysisDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}

	premiere := filepath.Join(root, ws.Name, "premiere")
	tests := []struct{ got, want string }{
		{ws.XMLPath(), filepath.Join(premiere, ws.Name+".xml")},
		{ws.SRTPath(), filepath.Join(premiere, ws.Name+".srt")},
		{ws.AudioAssetPath(".wav"), filepath.Join(premiere, "assets", "audio_"+ws.Name+".wav")},
		{ws.WordsSRTPath(), filepath.Join(root, ws.Name, "analysis", "words_timing.srt")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestAllocateSkipsExisting(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "project_001_2026-03-14"), 0755); err != nil {
		t.Fatal(err)
	}

	first, err := Allocate(context.Background(), root, day)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	second, err := Allocate(context.Background(), root, day)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if first.Name != "project_002_2026-03-14" || second.Name != "project_003_2026-03-14" {
		t.Errorf("names = %q, %q", first.Name, second.Name)
	}

	other, err := Allocate(context.Background(), root, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if other.Name != "project_001_2026-03-15" {
		t.Errorf("next day name = %q", other.Name)
	}
}

func TestAllocateLocked(t *testing.T) {
	root := t.TempDir()
	held := flock.New(filepath.Join(root, lockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("failed to take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	_, err = Allocate(ctx, root, day)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
