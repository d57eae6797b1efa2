package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadNarrative reads narrative segments from JSON. It accepts a list of
// {"text": ...} objects, a list of strings, or either wrapped under
// "segments". Blank segments are skipped.
func LoadNarrative(path string) ([]NarrativeSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segments: %w", err)
	}

	var wrapper struct {
		Segments json.RawMessage `json:"segments"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Segments) > 0 {
		data = wrapper.Segments
	}

	var segments []NarrativeSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		var texts []string
		if err := json.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("failed to parse segments %s: %w", path, err)
		}
		segments = segments[:0]
		for _, t := range texts {
			segments = append(segments, NarrativeSegment{Text: t})
		}
	}

	out := make([]NarrativeSegment, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			out = append(out, NarrativeSegment{Text: text})
		}
	}
	return out, nil
}
