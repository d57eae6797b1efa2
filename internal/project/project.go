package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// prompt/response pair kept for one oracle phase
type Exchange struct {
	System   string `json:"system"`
	User     string `json:"user"`
	Response string `json:"response"`
}

// Exchange keys stored in Metadata.Prompts.
const (
	PhaseScriptAnalysis = "script_analysis"
	PhaseSegmentation   = "segmentation"
)

// DroppedSegment records a narrative segment that could not be aligned.
type DroppedSegment struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	BestScore float64 `json:"best_score"`
}

// BatchIssue records an enrichment batch that failed or returned the wrong
// number of items.
type BatchIssue struct {
	Batch        int    `json:"batch"`
	FirstSegment int    `json:"first_segment"`
	LastSegment  int    `json:"last_segment"`
	Expected     int    `json:"expected"`
	Received     int    `json:"received"`
	Error        string `json:"error,omitempty"`
}

// run diagnostics for non-fatal failures
type Diagnostics struct {
	Dropped       []DroppedSegment `json:"dropped,omitempty"`
	FailedBatches []BatchIssue     `json:"failed_batches,omitempty"`
	ShortBatches  []BatchIssue     `json:"short_batches,omitempty"`
}

type Metadata struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Date           string              `json:"date"`
	TotalDuration  float64             `json:"total_duration"`
	SegmentCount   int                 `json:"segment_count"`
	ScriptAnalysis ScriptAnalysis      `json:"script_analysis"`
	Prompts        map[string]Exchange `json:"prompts,omitempty"`
	Diagnostics    Diagnostics         `json:"diagnostics"`
}

// Project is the aggregate handed to the renderers.
type Project struct {
	Segments []EnrichedSegment `json:"segments"`
	Metadata Metadata          `json:"metadata"`
}

func New(title string, now time.Time) *Project {
	return &Project{
		Segments: []EnrichedSegment{},
		Metadata: Metadata{
			ID:      uuid.NewString(),
			Title:   title,
			Date:    now.Format(dateLayout),
			Prompts: map[string]Exchange{},
		},
	}
}

// SetSegments replaces the segment list and refreshes derived metadata.
func (p *Project) SetSegments(segments []EnrichedSegment) {
	p.Segments = segments
	p.UpdateMetadata()
}

// UpdateMetadata recomputes segment count and total duration.
func (p *Project) UpdateMetadata() {
	p.Metadata.SegmentCount = len(p.Segments)
	p.Metadata.TotalDuration = 0
	for _, seg := range p.Segments {
		if seg.End > p.Metadata.TotalDuration {
			p.Metadata.TotalDuration = seg.End
		}
	}
}

func (p *Project) RecordExchange(phase string, ex Exchange) {
	if p.Metadata.Prompts == nil {
		p.Metadata.Prompts = map[string]Exchange{}
	}
	p.Metadata.Prompts[phase] = ex
}

// writes the project as indented JSON
func (p *Project) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}
	p.UpdateMetadata()

	return &p, nil
}
