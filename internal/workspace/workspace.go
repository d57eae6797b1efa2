package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the output directory lock.
var ErrLocked = errors.New("output directory is locked by another run")

const (
	lockFileName = ".moodboard.lock"
	retryDelay   = 100 * time.Millisecond
	maxProjects  = 999
)

// Workspace is the folder layout of a single run:
//
//	project_NNN_YYYY-MM-DD/
//	    premiere/<name>.xml
//	    premiere/<name>.srt
//	    premiere/assets/
//	    analysis/
type Workspace struct {
	Name string
	Dir  string
}

// Allocate creates the next free project folder for the day under root.
// Allocation is serialized across processes with a file lock; ctx bounds
// the wait for it.
func Allocate(ctx context.Context, root string, now time.Time) (*Workspace, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(root, lockFileName))
	ok, err := lock.TryLockContext(ctx, retryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrLocked, err)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	date := now.Format("2006-01-02")
	for i := 1; i <= maxProjects; i++ {
		name := fmt.Sprintf("project_%03d_%s", i, date)
		dir := filepath.Join(root, name)
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}

		ws := &Workspace{Name: name, Dir: dir}
		if err := ws.create(); err != nil {
			return nil, err
		}
		return ws, nil
	}

	return nil, fmt.Errorf("no free project folder for %s under %s", date, root)
}

func (w *Workspace) create() error {
	for _, dir := range []string{w.AssetsDir(), w.AnalysisDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (w *Workspace) PremiereDir() string { return filepath.Join(w.Dir, "premiere") }
func (w *Workspace) AssetsDir() string { return filepath.Join(w.PremiereDir(), "assets") }
func (w *Workspace) AnalysisDir() string { return filepath.Join(w.Dir, "analysis") }

func (w *Workspace) XMLPath() string {
	return filepath.Join(w.PremiereDir(), w.Name+".xml")
}

func (w *Workspace) SRTPath() string {
	return filepath.Join(w.PremiereDir(), w.Name+".srt")
}

// AudioAssetPath is where the prepared narration is kept for the editor.
func (w *Workspace) AudioAssetPath(ext string) string {
	return filepath.Join(w.AssetsDir(), "audio_"+w.Name+ext)
}

func (w *Workspace) ProjectPath() string {
	return filepath.Join(w.AnalysisDir(), "project.json")
}

func (w *Workspace) WordsPath() string {
	return filepath.Join(w.AnalysisDir(), "transcript_words.json")
}

func (w *Workspace) WordsSRTPath() string {
	return filepath.Join(w.AnalysisDir(), "words_timing.srt")
}

// ScratchDir holds intermediate files removed at the end of a run.
func (w *Workspace) ScratchDir() string {
	return filepath.Join(w.Dir, ".scratch")
}
