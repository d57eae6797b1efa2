package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/moodboard/internal/align"
	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/render"
	"github.com/mgpai22/moodboard/internal/transcript"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAlignFiles(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "words.json")
	segmentsPath := filepath.Join(dir, "segments.json")
	outPath := filepath.Join(dir, "out", "aligned.json")

	var raw []transcript.Word
	for i, w := range strings.Fields("the quick brown fox jumps over the lazy dog") {
		raw = append(raw, transcript.Word{Text: w, Start: float64(i), End: float64(i) + 0.8})
	}
	if err := transcript.SaveWords(wordsPath, transcript.NewWords(raw)); err != nil {
		t.Fatal(err)
	}
	writeFile(t, segmentsPath, `["the quick brown fox", "quantum chromodynamics lecture", "over the lazy dog"]`)

	recorder := &events.Recorder{}
	aligned, report, err := alignFiles(wordsPath, segmentsPath, outPath, align.DefaultOptions(), recorder)
	if err != nil {
		t.Fatalf("alignFiles failed: %v", err)
	}
	if len(aligned) != 2 || len(report.Dropped) != 1 {
		t.Fatalf("aligned=%d dropped=%d, want 2 and 1", len(aligned), len(report.Dropped))
	}
	if aligned[1].Start != 5 || aligned[1].End != 8.8 {
		t.Errorf("second segment = %.2f-%.2f, want 5.00-8.80", aligned[1].Start, aligned[1].End)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	var out alignOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("bad output json: %v", err)
	}
	if len(out.Segments) != 2 || len(out.Dropped) != 1 || out.Dropped[0].Index != 1 {
		t.Errorf("output = %+v", out)
	}
}

func TestRenderProject(t *testing.T) {
	p := project.New("demo", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	p.SetSegments([]project.EnrichedSegment{{
		AlignedSegment: project.AlignedSegment{Text: "intro", Start: 0, End: 2},
		Enrichment:     project.Enrichment{Description: "wide city shot"},
	}})

	dir := filepath.Join(t.TempDir(), "premiere")
	paths, err := renderProject(p, dir, "demo", render.MarkerOptions{FPS: 25})
	if err != nil {
		t.Fatalf("renderProject failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	srt, err := os.ReadFile(paths[0])
	if err != nil || !strings.Contains(string(srt), "wide city shot") {
		t.Errorf("srt = %q, err = %v", srt, err)
	}
	xml, err := os.ReadFile(paths[1])
	if err != nil || !strings.Contains(string(xml), "Moodboard_demo") {
		t.Errorf("xml missing sequence name, err = %v", err)
	}
}

func TestDefaultRenderDir(t *testing.T) {
	run := filepath.Join("out", "project_001_2026-10-15")
	if got := defaultRenderDir(filepath.Join(run, "analysis", "project.json")); got != filepath.Join(run, "premiere") {
		t.Errorf("got %q", got)
	}
	if got := defaultRenderDir(filepath.Join("elsewhere", "p.json")); got != "elsewhere" {
		t.Errorf("got %q", got)
	}
}
