package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/transcript"
)

// SubRip subtitle with one block per segment
type SRTWriter struct{}

// RenderSRT returns the subtitle document for a project.
func RenderSRT(p *project.Project) string {
	var sb strings.Builder
	for i, seg := range p.Segments {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			Timecode(seg.Start),
			Timecode(seg.End)))

		sb.WriteString(SubtitleBody(seg))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (w *SRTWriter) Write(p *project.Project, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(RenderSRT(p)), 0644)
}

// WordTimingSRT lists every transcript word as its own block, for checking
// the raw timings the alignment worked from.
func WordTimingSRT(words []transcript.Word) string {
	var sb strings.Builder
	for i, w := range words {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", Timecode(w.Start), Timecode(w.End)))
		sb.WriteString(w.Text)
		sb.WriteString(fmt.Sprintf("\n[Duration: %.3fs]\n\n", w.End-w.Start))
	}
	return sb.String()
}

func WriteWordTimingSRT(words []transcript.Word, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(WordTimingSRT(words)), 0644)
}
