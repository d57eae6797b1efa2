package oracle

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/moodboard/internal/project"
)

// stringList decodes either a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = trimAll(items)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = trimAll([]string{single})
	return nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// segmentItem accepts {"text": "..."} or a bare string.
type segmentItem struct {
	Text string `json:"text"`
}

func (s *segmentItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		s.Text = text
		return nil
	}

	type plain segmentItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = segmentItem(p)
	return nil
}

func decodeSegments(response string) ([]project.NarrativeSegment, error) {
	var segments []project.NarrativeSegment

	err := extractJSON(response, func(raw json.RawMessage) bool {
		var items []segmentItem
		if err := json.Unmarshal(unwrap(raw, "segments", "items", "data"), &items); err != nil {
			return false
		}

		segments = segments[:0]
		for _, item := range items {
			text := strings.TrimSpace(item.Text)
			if text == "" {
				continue
			}
			segments = append(segments, project.NarrativeSegment{Text: text})
		}
		return len(segments) > 0
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func decodeScriptAnalysis(response string) (project.ScriptAnalysis, error) {
	var analysis project.ScriptAnalysis

	err := extractJSON(response, func(raw json.RawMessage) bool {
		var candidate project.ScriptAnalysis
		if err := json.Unmarshal(unwrap(raw, "script_analysis", "analysis"), &candidate); err != nil {
			return false
		}
		if candidate.MainTheme == "" && candidate.KeyMessage == "" && candidate.Tone == "" {
			return false
		}
		analysis = candidate
		return true
	})
	return analysis, err
}

// enrichmentItem is one entry of an enrichment response. Alternate field
// names seen from different models are accepted.
type enrichmentItem struct {
	Description       string                `json:"description"`
	VisualDescription string                `json:"visual_description"`
	Storyboard        string                `json:"storyboard"`
	StoryboardLine    string                `json:"storyboard_line"`
	VisualCategories  map[string]stringList `json:"visual_categories"`
	VisualType        map[string]stringList `json:"visual_type"`
	Keywords          stringList            `json:"keywords"`
}

func (e enrichmentItem) toEnrichment() project.Enrichment {
	out := project.Enrichment{
		Description:    firstNonEmpty(e.Description, e.VisualDescription),
		StoryboardLine: firstNonEmpty(e.Storyboard, e.StoryboardLine),
		Keywords:       []string(e.Keywords),
	}

	categories := e.VisualCategories
	if len(categories) == 0 {
		categories = e.VisualType
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	visual := project.VisualCategories{}
	for _, name := range names {
		category, ok := project.ParseCategory(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			continue
		}
		visual.Add(category, categories[name]...)
	}
	if !visual.Empty() {
		out.VisualCategories = visual
	}
	if len(out.Keywords) == 0 {
		out.Keywords = nil
	}

	return out
}

func decodeEnrichments(response string) ([]project.Enrichment, error) {
	var enrichments []project.Enrichment

	err := extractJSON(response, func(raw json.RawMessage) bool {
		var items []enrichmentItem
		field := unwrap(raw, "segment_analyses", "analyses", "segments", "results", "items")
		if err := json.Unmarshal(field, &items); err != nil {
			return false
		}

		enrichments = enrichments[:0]
		for _, item := range items {
			enrichments = append(enrichments, item.toEnrichment())
		}
		return len(enrichments) > 0
	})
	if err != nil {
		return nil, err
	}
	return enrichments, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
