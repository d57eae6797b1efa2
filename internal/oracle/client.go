package oracle

import (
	"context"
	"fmt"

	"github.com/mgpai22/moodboard/internal/enrich"
	"github.com/mgpai22/moodboard/internal/project"
)

// Client runs the three language-model phases on top of a Completer and
// decodes their answers into typed records.
type Client struct {
	completer Completer
}

func NewClient(c Completer) *Client {
	return &Client{completer: c}
}

// AnalyzeScript produces the script breakdown shared by the later phases.
func (c *Client) AnalyzeScript(
	ctx context.Context,
	fullText string,
) (project.ScriptAnalysis, project.Exchange, error) {
	req := BuildAnalysisPrompt(fullText)
	ex := project.Exchange{System: req.System, User: req.User}

	response, err := c.completer.Complete(ctx, req)
	if err != nil {
		return project.ScriptAnalysis{}, ex, fmt.Errorf("script analysis failed: %w", err)
	}
	ex.Response = response

	analysis, err := decodeScriptAnalysis(response)
	if err != nil {
		return project.ScriptAnalysis{}, ex, fmt.Errorf("failed to parse script analysis: %w", err)
	}
	return analysis, ex, nil
}

// Segment splits the narration into timeless narrative segments.
func (c *Client) Segment(
	ctx context.Context,
	fullText string,
	analysis project.ScriptAnalysis,
) ([]project.NarrativeSegment, project.Exchange, error) {
	req := BuildSegmentationPrompt(fullText, analysis)
	ex := project.Exchange{System: req.System, User: req.User}

	response, err := c.completer.Complete(ctx, req)
	if err != nil {
		return nil, ex, fmt.Errorf("segmentation failed: %w", err)
	}
	ex.Response = response

	segments, err := decodeSegments(response)
	if err != nil {
		return nil, ex, fmt.Errorf("failed to parse segmentation: %w", err)
	}
	return segments, ex, nil
}

// EnrichBatch implements enrich.Enricher. Item count is not checked here;
// the coordinator reconciles it against the batch.
func (c *Client) EnrichBatch(
	ctx context.Context,
	batch enrich.Batch,
) ([]project.Enrichment, error) {
	response, err := c.completer.Complete(ctx, BuildEnrichmentPrompt(batch))
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	enrichments, err := decodeEnrichments(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse enrichment: %w", err)
	}
	return enrichments, nil
}

var _ enrich.Enricher = (*Client)(nil)
