package render

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/moodboard/internal/project"
)

const maxTitleRunes = 100

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// MarkerOptions controls the sequence the markers are attached to.
type MarkerOptions struct {
	FPS          int
	NTSC         bool
	AudioPath    string // optional, adds the narration as an audio clip
	SequenceName string
}

// Premiere XMEML v5 sequence with one marker per segment
type XMLWriter struct {
	Options MarkerOptions
}

func NewXMLWriter(opts MarkerOptions) *XMLWriter {
	return &XMLWriter{Options: opts}
}

func (w *XMLWriter) Write(p *project.Project, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(RenderXML(p, w.Options)), 0644)
}

// Marker is a frame-based timeline marker.
type Marker struct {
	Name    string
	Comment string
	In      int
	Out     int
}

// Markers converts segments into markers. Names and comments are already
// escaped for embedding in XML.
func Markers(p *project.Project, fps int) []Marker {
	markers := make([]Marker, len(p.Segments))
	for i, seg := range p.Segments {
		in := Frames(seg.Start, fps)
		out := Frames(seg.End, fps)
		if in >= out {
			out = in + 1
		}

		title := strings.TrimRight(
			fmt.Sprintf("[%d] %s", i+1, truncateRunes(seg.Description, maxTitleRunes)),
			" ",
		)

		markers[i] = Marker{
			Name:    escapeXML(title),
			Comment: markerComment(seg),
			In:      in,
			Out:     out,
		}
	}
	return markers
}

// markerComment is the subtitle body without placeholders, escaped, with
// newlines encoded as the XML newline entity.
func markerComment(seg project.EnrichedSegment) string {
	body := escapeXML(fieldsOf(seg).String())
	return strings.ReplaceAll(body, "\n", "&#xA;")
}

// RenderXML returns the XMEML document for a project.
func RenderXML(p *project.Project, opts MarkerOptions) string {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	markers := Markers(p, fps)

	duration := Frames(p.Metadata.TotalDuration, fps)
	for _, m := range markers {
		if m.Out > duration {
			duration = m.Out
		}
	}
	if duration == 0 {
		duration = 1
	}

	name := opts.SequenceName
	if name == "" {
		name = p.Metadata.Title
	}
	if name == "" {
		name = "Moodboard"
	}

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<!DOCTYPE xmeml>\n")
	sb.WriteString("<xmeml version=\"5\">\n")
	sb.WriteString("    <sequence>\n")
	sb.WriteString(fmt.Sprintf("        <name>%s</name>\n", escapeXML(name)))
	sb.WriteString(fmt.Sprintf("        <duration>%d</duration>\n", duration))
	writeRate(&sb, "        ", fps, opts.NTSC)
	sb.WriteString("        <timecode>\n")
	writeRate(&sb, "            ", fps, opts.NTSC)
	sb.WriteString("            <string>00:00:00:00</string>\n")
	sb.WriteString("            <frame>0</frame>\n")
	sb.WriteString("            <source>source</source>\n")
	sb.WriteString("            <displayformat>NDF</displayformat>\n")
	sb.WriteString("        </timecode>\n")

	if opts.AudioPath != "" {
		writeAudioTrack(&sb, opts.AudioPath, duration, fps, opts.NTSC)
	}

	sb.WriteString("        <markers>\n")
	for _, m := range markers {
		sb.WriteString("            <marker>\n")
		sb.WriteString(fmt.Sprintf("                <name>%s</name>\n", m.Name))
		sb.WriteString(fmt.Sprintf("                <comment>%s</comment>\n", m.Comment))
		sb.WriteString(fmt.Sprintf("                <in>%d</in>\n", m.In))
		sb.WriteString(fmt.Sprintf("                <out>%d</out>\n", m.Out))
		sb.WriteString("            </marker>\n")
	}
	sb.WriteString("        </markers>\n")
	sb.WriteString("    </sequence>\n")
	sb.WriteString("</xmeml>\n")

	return sb.String()
}

func writeAudioTrack(
	sb *strings.Builder,
	audioPath string,
	duration int,
	fps int,
	ntsc bool,
) {
	base := escapeXML(filepath.Base(audioPath))

	sb.WriteString("        <media>\n")
	sb.WriteString("            <audio>\n")
	sb.WriteString("                <track>\n")
	sb.WriteString("                    <enabled>TRUE</enabled>\n")
	sb.WriteString("                    <locked>FALSE</locked>\n")
	sb.WriteString("                    <clipitem id=\"audio_1\">\n")
	sb.WriteString(fmt.Sprintf("                        <name>%s</name>\n", base))
	sb.WriteString(fmt.Sprintf("                        <duration>%d</duration>\n", duration))
	writeRate(sb, "                        ", fps, ntsc)
	sb.WriteString("                        <file id=\"file_1\">\n")
	sb.WriteString(fmt.Sprintf("                            <name>%s</name>\n", base))
	sb.WriteString(fmt.Sprintf("                            <pathurl>%s</pathurl>\n", escapeXML(fileURL(audioPath))))
	writeRate(sb, "                            ", fps, ntsc)
	sb.WriteString(fmt.Sprintf("                            <duration>%d</duration>\n", duration))
	sb.WriteString("                            <media>\n")
	sb.WriteString("                                <audio>\n")
	sb.WriteString("                                    <samplecharacteristics>\n")
	sb.WriteString("                                        <depth>16</depth>\n")
	sb.WriteString("                                        <samplerate>48000</samplerate>\n")
	sb.WriteString("                                    </samplecharacteristics>\n")
	sb.WriteString("                                    <channelcount>2</channelcount>\n")
	sb.WriteString("                                </audio>\n")
	sb.WriteString("                            </media>\n")
	sb.WriteString("                        </file>\n")
	sb.WriteString("                        <sourcetrack>\n")
	sb.WriteString("                            <mediatype>audio</mediatype>\n")
	sb.WriteString("                        </sourcetrack>\n")
	sb.WriteString("                        <in>0</in>\n")
	sb.WriteString(fmt.Sprintf("                        <out>%d</out>\n", duration))
	sb.WriteString("                        <start>0</start>\n")
	sb.WriteString(fmt.Sprintf("                        <end>%d</end>\n", duration))
	sb.WriteString("                    </clipitem>\n")
	sb.WriteString("                </track>\n")
	sb.WriteString("            </audio>\n")
	sb.WriteString("        </media>\n")
}

func writeRate(sb *strings.Builder, indent string, fps int, ntsc bool) {
	sb.WriteString(indent + "<rate>\n")
	sb.WriteString(fmt.Sprintf("%s    <timebase>%d</timebase>\n", indent, fps))
	sb.WriteString(fmt.Sprintf("%s    <ntsc>%s</ntsc>\n", indent, boolFlag(ntsc)))
	sb.WriteString(indent + "</rate>\n")
}

// fileURL builds the file://localhost URL Premiere expects for media.
func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Host: "localhost", Path: abs}
	return u.String()
}

func boolFlag(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
