package cli

import (
	"strings"
	"testing"

	"github.com/mgpai22/moodboard/internal/project"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") || !strings.Contains(out, "A") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("expected empty output without headers")
	}
}

func TestDiagnosticsTable(t *testing.T) {
	if got := diagnosticsTable(project.Diagnostics{}); got != "" {
		t.Errorf("expected no table for a clean run, got:\n%s", got)
	}

	out := diagnosticsTable(project.Diagnostics{
		Dropped:       []project.DroppedSegment{{Index: 2, Text: "lost line", BestScore: 41.5}},
		FailedBatches: []project.BatchIssue{{Batch: 1, FirstSegment: 12, LastSegment: 23, Error: "timeout"}},
		ShortBatches:  []project.BatchIssue{{Batch: 0, FirstSegment: 0, LastSegment: 0, Expected: 1, Received: 0}},
	})
	for _, want := range []string{
		"segment 3",
		"best score 41.5",
		"segments 13-24",
		"timeout",
		"expected 1, received 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := clip(long)
	if len([]rune(got)) != maxCellRunes || !strings.HasSuffix(got, "...") {
		t.Errorf("clip() = %q", got)
	}
	if clip("a\n b") != "a b" {
		t.Errorf("clip should collapse whitespace")
	}
}
