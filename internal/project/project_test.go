package project

import (
	"path/filepath"
	"testing"
	"time"
)

func segment(text string, start, end float64) EnrichedSegment {
	return EnrichedSegment{
		AlignedSegment: AlignedSegment{Text: text, Start: start, End: end, Confidence: 100},
	}
}

func TestSetSegmentsUpdatesMetadata(t *testing.T) {
	p := New("demo", time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	if p.Metadata.Date != "2026-10-15" {
		t.Errorf("Date = %q", p.Metadata.Date)
	}
	if p.Metadata.ID == "" {
		t.Error("expected a run id")
	}

	p.SetSegments([]EnrichedSegment{
		segment("one", 0, 2.5),
		segment("two", 2.5, 7.25),
		segment("three", 7.25, 6),
	})

	if p.Metadata.SegmentCount != 3 {
		t.Errorf("SegmentCount = %d, want 3", p.Metadata.SegmentCount)
	}
	if p.Metadata.TotalDuration != 7.25 {
		t.Errorf("TotalDuration = %v, want 7.25", p.Metadata.TotalDuration)
	}

	p.SetSegments(nil)
	if p.Metadata.SegmentCount != 0 || p.Metadata.TotalDuration != 0 {
		t.Errorf("metadata not reset: %+v", p.Metadata)
	}
}

func TestSaveLoadKeepsCategories(t *testing.T) {
	p := New("demo", time.Now())
	seg := segment("The cat sat", 0, 1.5)
	seg.Description = "calm intro shot"
	seg.VisualCategories = VisualCategories{}
	seg.VisualCategories.Add(CategoryBRoll, "cat on a mat", "")
	seg.Keywords = []string{"cat"}
	p.SetSegments([]EnrichedSegment{seg})
	p.RecordExchange(PhaseSegmentation, Exchange{System: "s", User: "u", Response: "r"})

	path := filepath.Join(t.TempDir(), "nested", "project.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(loaded.Segments))
	}
	got := loaded.Segments[0]
	if got.Description != "calm intro shot" || got.Text != "The cat sat" {
		t.Errorf("unexpected segment %+v", got)
	}
	if items := got.VisualCategories[CategoryBRoll]; len(items) != 1 || items[0] != "cat on a mat" {
		t.Errorf("broll = %v", items)
	}
	if loaded.Metadata.Prompts[PhaseSegmentation].Response != "r" {
		t.Error("exchange not persisted")
	}
	if loaded.Metadata.TotalDuration != 1.5 {
		t.Errorf("TotalDuration = %v", loaded.Metadata.TotalDuration)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name string
		want Category
		ok   bool
	}{
		{"broll", CategoryBRoll, true},
		{"b_roll", CategoryBRoll, true},
		{"textos", CategoryTextOverlay, true},
		{"infografias", CategoryInfographic, true},
		{"transiciones", CategoryTransition, true},
		{"sound_design", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseCategory(%q) = %q, %v", tt.name, got, ok)
			}
		})
	}
}

func TestEnrichmentIsEmpty(t *testing.T) {
	var e Enrichment
	if !e.IsEmpty() {
		t.Error("zero enrichment should be empty")
	}
	e.VisualCategories = VisualCategories{CategoryCGI3D: nil}
	if !e.IsEmpty() {
		t.Error("categories without items should be empty")
	}
	e.Keywords = []string{"cat"}
	if e.IsEmpty() {
		t.Error("enrichment with keywords is not empty")
	}
}
