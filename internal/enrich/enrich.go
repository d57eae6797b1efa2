package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/project"
)

const DefaultBatchSize = 12

type Options struct {
	BatchSize   int // segments per oracle request (default 12)
	Concurrency int // batches in flight at once, 0 means all of them
}

// Batch is one enrichment request. Segments keep their order; Offset is the
// position of the first segment in the full aligned list.
type Batch struct {
	Index    int
	Total    int
	Offset   int
	Segments []project.AlignedSegment
	Context  string
	Analysis project.ScriptAnalysis
}

// interface for the enrichment oracle
type Enricher interface {
	EnrichBatch(ctx context.Context, batch Batch) ([]project.Enrichment, error)
}

type EnricherFunc func(ctx context.Context, batch Batch) ([]project.Enrichment, error)

func (f EnricherFunc) EnrichBatch(
	ctx context.Context,
	batch Batch,
) ([]project.Enrichment, error) {
	return f(ctx, batch)
}

// Report lists batches that failed or returned the wrong number of items.
type Report struct {
	Failed []project.BatchIssue
	Short  []project.BatchIssue
}

// Degraded reports whether any segment ended up with fallback enrichment.
func (r Report) Degraded() bool {
	return len(r.Failed) > 0 || len(r.Short) > 0
}

// Coordinator fans aligned segments out to the enricher in batches and
// merges the answers back in submission order.
type Coordinator struct {
	enricher Enricher
	opts     Options
	sink     events.Sink
}

func NewCoordinator(e Enricher, opts Options, sink events.Sink) *Coordinator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if sink == nil {
		sink = events.Discard
	}
	return &Coordinator{enricher: e, opts: opts, sink: sink}
}

// Partition splits segments into consecutive batches of at most size items.
func Partition(
	segments []project.AlignedSegment,
	size int,
) [][]project.AlignedSegment {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var batches [][]project.AlignedSegment
	for i := 0; i < len(segments); i += size {
		end := i + size
		if end > len(segments) {
			end = len(segments)
		}
		batches = append(batches, segments[i:end])
	}
	return batches
}

// SharedContext joins the segment texts into the narration every batch sees.
func SharedContext(segments []project.AlignedSegment) string {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return strings.Join(texts, " ")
}

type batchResult struct {
	Index       int
	Enrichments []project.Enrichment
	Error       error
}

// Enrich returns one enriched segment per aligned segment, in input order.
// A batch that fails, panics or returns unparsable output only degrades its
// own segments to empty enrichment; it never stops the other batches.
// An empty sharedContext is derived from the segments.
func (c *Coordinator) Enrich(
	ctx context.Context,
	aligned []project.AlignedSegment,
	sharedContext string,
	analysis project.ScriptAnalysis,
) ([]project.EnrichedSegment, Report) {
	var report Report
	if len(aligned) == 0 {
		return []project.EnrichedSegment{}, report
	}
	if sharedContext == "" {
		sharedContext = SharedContext(aligned)
	}

	parts := Partition(aligned, c.opts.BatchSize)
	batches := make([]Batch, len(parts))
	offset := 0
	for i, segs := range parts {
		batches[i] = Batch{
			Index:    i,
			Total:    len(parts),
			Offset:   offset,
			Segments: segs,
			Context:  sharedContext,
			Analysis: analysis,
		}
		offset += len(segs)
	}

	events.Emit(c.sink, events.StageEnrich, events.KindInfo,
		"Starting enrichment",
		"segments", len(aligned),
		"batches", len(batches),
		"batch_size", c.opts.BatchSize,
	)

	resultChan := make(chan batchResult, len(batches))

	var g errgroup.Group
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}
	for _, batch := range batches {
		g.Go(func() error {
			enrichments, err := c.runBatch(ctx, batch)
			resultChan <- batchResult{
				Index:       batch.Index,
				Enrichments: enrichments,
				Error:       err,
			}
			return nil
		})
	}
	_ = g.Wait()
	close(resultChan)

	results := make([]batchResult, 0, len(batches))
	for result := range resultChan {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	flattened := make([]project.Enrichment, 0, len(aligned))
	for _, result := range results {
		batch := batches[result.Index]
		issue := project.BatchIssue{
			Batch:        batch.Index,
			FirstSegment: batch.Offset,
			LastSegment:  batch.Offset + len(batch.Segments) - 1,
			Expected:     len(batch.Segments),
			Received:     len(result.Enrichments),
		}

		if result.Error != nil {
			issue.Received = 0
			issue.Error = result.Error.Error()
			report.Failed = append(report.Failed, issue)
			events.Emit(c.sink, events.StageEnrich, events.KindWarning,
				"Enrichment batch failed, using empty enrichment",
				"batch", batch.Index+1,
				"first_segment", issue.FirstSegment,
				"last_segment", issue.LastSegment,
				"error", issue.Error,
			)
			flattened = append(flattened, make([]project.Enrichment, len(batch.Segments))...)
			continue
		}

		if issue.Received != issue.Expected {
			report.Short = append(report.Short, issue)
			events.Emit(c.sink, events.StageEnrich, events.KindWarning,
				"Enrichment batch size mismatch",
				"batch", batch.Index+1,
				"expected", issue.Expected,
				"received", issue.Received,
			)
		}
		flattened = append(flattened, fit(result.Enrichments, len(batch.Segments))...)
	}

	enriched := make([]project.EnrichedSegment, len(aligned))
	for i, seg := range aligned {
		enriched[i].AlignedSegment = seg
		if i < len(flattened) {
			enriched[i].Enrichment = flattened[i]
		}
	}

	events.Emit(c.sink, events.StageEnrich, events.KindInfo,
		"Enrichment complete",
		"segments", len(enriched),
		"failed_batches", len(report.Failed),
		"mismatched_batches", len(report.Short),
	)

	return enriched, report
}

func (c *Coordinator) runBatch(
	ctx context.Context,
	batch Batch,
) (enrichments []project.Enrichment, err error) {
	defer func() {
		if r := recover(); r != nil {
			enrichments = nil
			err = fmt.Errorf("batch %d panicked: %v", batch.Index, r)
		}
	}()

	enrichments, err = c.enricher.EnrichBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	events.Emit(c.sink, events.StageEnrich, events.KindProgress,
		"Enrichment batch done",
		"batch", batch.Index+1,
		"total", batch.Total,
		"segments", len(batch.Segments),
	)
	return enrichments, nil
}

// fit pads with empty enrichment or drops surplus items so the result has
// exactly n entries.
func fit(items []project.Enrichment, n int) []project.Enrichment {
	out := make([]project.Enrichment, n)
	copy(out, items)
	return out
}
