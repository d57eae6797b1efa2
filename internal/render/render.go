package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/moodboard/internal/project"
)

const DefaultFPS = 30

// writes a rendered project artifact to path
type Writer interface {
	Write(p *project.Project, path string) error
}

// Timecode formats seconds as HH:MM:SS,mmm, truncating to the millisecond.
func Timecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	// the epsilon keeps values like 3661.234 from flooring to ...233
	ms := int64(math.Floor(seconds*1000 + 1e-6))

	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Frames converts seconds to a whole frame number, rounding down.
func Frames(seconds float64, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int(math.Floor(seconds*float64(fps) + 1e-9))
}

// categoryLines lists "category: item" for every non-empty category in
// canonical order.
func categoryLines(vc project.VisualCategories) []string {
	var lines []string
	for _, c := range project.Categories {
		for _, item := range vc[c] {
			lines = append(lines, fmt.Sprintf("%s: %s", c, item))
		}
	}
	return lines
}

type bodyFields struct {
	Description string
	Storyboard  string
	Visual      string
	Keywords    string
	Text        string
}

func (f bodyFields) String() string {
	var sb strings.Builder
	sb.WriteString("VISUAL DESCRIPTION:\n")
	sb.WriteString(f.Description)
	sb.WriteString("\n\nSTORYBOARD:\n")
	sb.WriteString(f.Storyboard)
	sb.WriteString("\n\nVISUAL TYPE:\n")
	sb.WriteString(f.Visual)
	sb.WriteString("\n\nKEYWORDS:\n")
	sb.WriteString(f.Keywords)
	sb.WriteString("\n\nTEXT:\n")
	sb.WriteString(f.Text)
	return sb.String()
}

func fieldsOf(seg project.EnrichedSegment) bodyFields {
	return bodyFields{
		Description: seg.Description,
		Storyboard:  seg.StoryboardLine,
		Visual:      strings.Join(categoryLines(seg.VisualCategories), "\n"),
		Keywords:    strings.Join(seg.Keywords, ", "),
		Text:        seg.Text,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// SubtitleBody is the fixed-layout subtitle text for one segment. Missing
// fields are shown with a placeholder so every block has the same shape.
func SubtitleBody(seg project.EnrichedSegment) string {
	f := fieldsOf(seg)
	f.Description = orDefault(f.Description, "No visual description")
	f.Storyboard = orDefault(f.Storyboard, "No storyboard")
	f.Visual = orDefault(f.Visual, "No visual elements")
	f.Keywords = orDefault(f.Keywords, "No keywords")
	return f.String()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
