package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mgpai22/moodboard/internal/project"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const maxCellRunes = 60

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// alignedTable lists segments with their timing and match score.
func alignedTable(segments []project.AlignedSegment) string {
	rows := make([][]string, len(segments))
	for i, seg := range segments {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", seg.Start),
			fmt.Sprintf("%.2f", seg.End),
			fmt.Sprintf("%.1f", seg.Confidence),
			clip(seg.Text),
		}
	}
	return renderTable(
		[]string{"#", "Start", "End", "Score", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

// diagnosticsTable lists dropped segments and degraded batches; it is empty
// when the run had neither.
func diagnosticsTable(d project.Diagnostics) string {
	var rows [][]string
	for _, drop := range d.Dropped {
		rows = append(rows, []string{
			"dropped",
			fmt.Sprintf("segment %d", drop.Index+1),
			fmt.Sprintf("best score %.1f", drop.BestScore),
			clip(drop.Text),
		})
	}
	for _, issue := range d.FailedBatches {
		rows = append(rows, []string{
			"failed batch",
			segmentRange(issue),
			fmt.Sprintf("batch %d", issue.Batch+1),
			clip(issue.Error),
		})
	}
	for _, issue := range d.ShortBatches {
		rows = append(rows, []string{
			"size mismatch",
			segmentRange(issue),
			fmt.Sprintf("batch %d", issue.Batch+1),
			fmt.Sprintf("expected %d, received %d", issue.Expected, issue.Received),
		})
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable([]string{"Issue", "Segments", "Detail", "Note"}, rows, nil)
}

func segmentRange(issue project.BatchIssue) string {
	if issue.FirstSegment == issue.LastSegment {
		return fmt.Sprintf("segment %d", issue.FirstSegment+1)
	}
	return fmt.Sprintf("segments %d-%d", issue.FirstSegment+1, issue.LastSegment+1)
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxCellRunes {
		return s
	}
	return string(r[:maxCellRunes-3]) + "..."
}
