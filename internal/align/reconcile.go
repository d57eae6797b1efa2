package align

import (
	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/transcript"
)

// Report lists the segments dropped during reconciliation.
type Report struct {
	Dropped []project.DroppedSegment
}

// Reconciler drives the aligner over narrative segments in reading order
// with a forward-only cursor.
type Reconciler struct {
	aligner *Aligner
	sink    events.Sink
}

func NewReconciler(aligner *Aligner, sink events.Sink) *Reconciler {
	if sink == nil {
		sink = events.Discard
	}
	return &Reconciler{aligner: aligner, sink: sink}
}

// Reconcile timestamps segments in order. Segments that do not align are
// dropped and the cursor stays where it was, so output order is input order
// minus drops and times never go backwards.
func (r *Reconciler) Reconcile(
	segments []project.NarrativeSegment,
) ([]project.AlignedSegment, Report) {
	aligned := make([]project.AlignedSegment, 0, len(segments))
	var report Report

	cursor := 0
	for i, seg := range segments {
		match, ok := r.aligner.Align(seg.Text, cursor)
		if !ok {
			report.Dropped = append(report.Dropped, project.DroppedSegment{
				Index:     i,
				Text:      seg.Text,
				BestScore: match.Confidence,
			})
			events.Emit(r.sink, events.StageAlign, events.KindWarning,
				"No reliable match for segment",
				"segment", i,
				"best_score", match.Confidence,
				"text", seg.Text,
			)
			continue
		}

		aligned = append(aligned, project.AlignedSegment{
			Text:       seg.Text,
			Start:      match.Start,
			End:        match.End,
			Confidence: match.Confidence,
			FirstWord:  match.FirstWord,
			LastWord:   match.LastWord,
		})
		cursor = r.aligner.nextCursor(cursor, match.End)

		events.Emit(r.sink, events.StageAlign, events.KindProgress,
			"Segment matched",
			"segment", i,
			"score", match.Confidence,
			"start", match.Start,
			"end", match.End,
		)
	}

	events.Emit(r.sink, events.StageAlign, events.KindInfo,
		"Alignment complete",
		"aligned", len(aligned),
		"dropped", len(report.Dropped),
	)

	return aligned, report
}

// Reconcile builds an aligner over words and reconciles segments against it.
func Reconcile(
	segments []project.NarrativeSegment,
	words []transcript.Word,
	opts Options,
	sink events.Sink,
) ([]project.AlignedSegment, Report, error) {
	aligner, err := NewAligner(words, opts)
	if err != nil {
		return nil, Report{}, err
	}
	aligned, report := NewReconciler(aligner, sink).Reconcile(segments)
	return aligned, report, nil
}
