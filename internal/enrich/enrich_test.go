package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/project"
)

func alignedSegments(n int) []project.AlignedSegment {
	segs := make([]project.AlignedSegment, n)
	for i := range segs {
		segs[i] = project.AlignedSegment{
			Text:       fmt.Sprintf("segment %d", i),
			Start:      float64(i),
			End:        float64(i) + 1,
			Confidence: 100,
		}
	}
	return segs
}

// describes every segment with its own text
func echo(batch Batch) []project.Enrichment {
	out := make([]project.Enrichment, len(batch.Segments))
	for i, seg := range batch.Segments {
		out[i] = project.Enrichment{
			Description: "desc " + seg.Text,
			Keywords:    []string{seg.Text},
		}
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int
	}{
		{0, 12, nil},
		{5, 12, []int{5}},
		{12, 12, []int{12}},
		{25, 12, []int{12, 12, 1}},
		{3, 0, []int{3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.n, tt.size), func(t *testing.T) {
			batches := Partition(alignedSegments(tt.n), tt.size)
			if len(batches) != len(tt.want) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.want))
			}
			next := 0
			for i, b := range batches {
				if len(b) != tt.want[i] {
					t.Errorf("batch %d has %d segments, want %d", i, len(b), tt.want[i])
				}
				for _, seg := range b {
					if seg.Start != float64(next) {
						t.Errorf("order broken at segment %d", next)
					}
					next++
				}
			}
		})
	}
}

func TestSharedContext(t *testing.T) {
	got := SharedContext(alignedSegments(3))
	if got != "segment 0 segment 1 segment 2" {
		t.Errorf("SharedContext() = %q", got)
	}
}

func TestEnrichPreservesOrderWhenBatchesFinishInReverse(t *testing.T) {
	const batches = 4
	done := make([]chan struct{}, batches)
	for i := range done {
		done[i] = make(chan struct{})
	}

	var mu sync.Mutex
	var finished []int

	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		if b.Index+1 < batches {
			select {
			case <-done[b.Index+1]:
			case <-time.After(5 * time.Second):
				return nil, errors.New("timed out waiting for later batch")
			}
		}
		mu.Lock()
		finished = append(finished, b.Index)
		mu.Unlock()
		close(done[b.Index])
		return echo(b), nil
	})

	segs := alignedSegments(batches * 3)
	coordinator := NewCoordinator(enricher, Options{BatchSize: 3}, nil)
	enriched, report := coordinator.Enrich(context.Background(), segs, "", project.ScriptAnalysis{})

	if report.Degraded() {
		t.Fatalf("unexpected report %+v", report)
	}
	for i, idx := range finished {
		if idx != batches-1-i {
			t.Fatalf("batches did not finish in reverse order: %v", finished)
		}
	}
	if len(enriched) != len(segs) {
		t.Fatalf("got %d segments, want %d", len(enriched), len(segs))
	}
	for i, seg := range enriched {
		if seg.Text != segs[i].Text {
			t.Errorf("position %d holds %q, want %q", i, seg.Text, segs[i].Text)
		}
		if seg.Description != "desc "+segs[i].Text {
			t.Errorf("position %d has description %q", i, seg.Description)
		}
	}
}

func TestEnrichIsolatesFailedBatch(t *testing.T) {
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		if b.Index == 1 {
			return nil, errors.New("oracle unavailable")
		}
		return echo(b), nil
	})
	recorder := &events.Recorder{}

	segs := alignedSegments(9)
	enriched, report := NewCoordinator(enricher, Options{BatchSize: 3}, recorder).
		Enrich(context.Background(), segs, "", project.ScriptAnalysis{})

	if len(enriched) != 9 {
		t.Fatalf("got %d segments, want 9", len(enriched))
	}
	for i, seg := range enriched {
		inFailed := i >= 3 && i < 6
		if inFailed && !seg.Enrichment.IsEmpty() {
			t.Errorf("segment %d should have empty enrichment, got %+v", i, seg.Enrichment)
		}
		if !inFailed && seg.Description != "desc "+segs[i].Text {
			t.Errorf("segment %d lost its enrichment: %+v", i, seg.Enrichment)
		}
		if seg.AlignedSegment != segs[i] {
			t.Errorf("segment %d timing changed", i)
		}
	}

	if len(report.Failed) != 1 {
		t.Fatalf("expected one failed batch, got %+v", report.Failed)
	}
	issue := report.Failed[0]
	if issue.Batch != 1 || issue.FirstSegment != 3 || issue.LastSegment != 5 {
		t.Errorf("unexpected issue %+v", issue)
	}
	if issue.Error != "oracle unavailable" {
		t.Errorf("issue error = %q", issue.Error)
	}
	if got := len(recorder.Filter(events.StageEnrich, events.KindWarning)); got != 1 {
		t.Errorf("expected 1 warning event, got %d", got)
	}
}

func TestEnrichPadsShortAndTrimsLongBatches(t *testing.T) {
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		out := echo(b)
		switch b.Index {
		case 0:
			return out[:1], nil
		case 1:
			return append(out, project.Enrichment{Description: "extra"}), nil
		}
		return out, nil
	})

	segs := alignedSegments(6)
	enriched, report := NewCoordinator(enricher, Options{BatchSize: 3}, nil).
		Enrich(context.Background(), segs, "", project.ScriptAnalysis{})

	if len(enriched) != 6 {
		t.Fatalf("got %d segments, want 6", len(enriched))
	}
	if enriched[0].Description != "desc segment 0" {
		t.Errorf("segment 0 = %+v", enriched[0].Enrichment)
	}
	if !enriched[1].Enrichment.IsEmpty() || !enriched[2].Enrichment.IsEmpty() {
		t.Error("missing items should be padded with empty enrichment")
	}
	for i := 3; i < 6; i++ {
		if enriched[i].Description != "desc "+segs[i].Text {
			t.Errorf("segment %d = %+v", i, enriched[i].Enrichment)
		}
	}

	if len(report.Short) != 2 {
		t.Fatalf("expected two mismatched batches, got %+v", report.Short)
	}
	if report.Short[0].Received != 1 || report.Short[1].Received != 4 {
		t.Errorf("unexpected mismatch report %+v", report.Short)
	}
}

func TestEnrichRecoversPanickingBatch(t *testing.T) {
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		if b.Index == 0 {
			panic("boom")
		}
		return echo(b), nil
	})

	enriched, report := NewCoordinator(enricher, Options{BatchSize: 2}, nil).
		Enrich(context.Background(), alignedSegments(4), "", project.ScriptAnalysis{})

	if len(report.Failed) != 1 || report.Failed[0].Batch != 0 {
		t.Fatalf("expected batch 0 to fail, got %+v", report.Failed)
	}
	if !enriched[0].Enrichment.IsEmpty() || enriched[2].Description == "" {
		t.Errorf("unexpected enrichment %+v", enriched)
	}
}

func TestEnrichSharesContextAndAnalysis(t *testing.T) {
	analysis := project.ScriptAnalysis{MainTheme: "cats", Tone: "calm"}

	var mu sync.Mutex
	seen := map[int]Batch{}
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		mu.Lock()
		seen[b.Index] = b
		mu.Unlock()
		return echo(b), nil
	})

	NewCoordinator(enricher, Options{BatchSize: 2}, nil).
		Enrich(context.Background(), alignedSegments(5), "the whole narration", analysis)

	if len(seen) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(seen))
	}
	wantOffsets := []int{0, 2, 4}
	for i := 0; i < 3; i++ {
		b := seen[i]
		if b.Context != "the whole narration" {
			t.Errorf("batch %d context = %q", i, b.Context)
		}
		if b.Analysis.MainTheme != "cats" || b.Analysis.Tone != "calm" {
			t.Errorf("batch %d analysis = %+v", i, b.Analysis)
		}
		if b.Offset != wantOffsets[i] || b.Total != 3 {
			t.Errorf("batch %d offset/total = %d/%d", i, b.Offset, b.Total)
		}
	}
}

func TestEnrichRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return echo(b), nil
	})

	enriched, report := NewCoordinator(enricher, Options{BatchSize: 1, Concurrency: 2}, nil).
		Enrich(context.Background(), alignedSegments(8), "", project.ScriptAnalysis{})

	if report.Degraded() || len(enriched) != 8 {
		t.Fatalf("unexpected result: %d segments, report %+v", len(enriched), report)
	}
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", peak)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	called := false
	enricher := EnricherFunc(func(ctx context.Context, b Batch) ([]project.Enrichment, error) {
		called = true
		return nil, nil
	})

	enriched, report := NewCoordinator(enricher, Options{}, nil).
		Enrich(context.Background(), nil, "", project.ScriptAnalysis{})

	if called {
		t.Error("enricher should not be called for empty input")
	}
	if len(enriched) != 0 || report.Degraded() {
		t.Errorf("unexpected result %+v, %+v", enriched, report)
	}
}
