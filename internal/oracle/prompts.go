package oracle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/moodboard/internal/enrich"
	"github.com/mgpai22/moodboard/internal/project"
)

const analysisSystemPrompt = `You are an experienced screenwriter and art director specialised in script breakdowns and visual direction.
Analyse the narration you are given in depth and identify the elements that will guide its visual treatment and storytelling.`

const segmentationSystemPrompt = `You are an expert in narrative analysis, art direction and video editing.
Your task is to split voice-overs into coherent units following the rules given and the prior script analysis.
Return the text of every segment exactly as it appears in the narration.`

const enrichmentSystemPrompt = `You are an art director and visual effects expert with long post-production experience.
Create a detailed visual plan for each segment, stating exactly which kinds of visual content it needs.
Stay consistent with the prior script analysis and the full narration.`

const analysisTemplate = `{
  "script_analysis": {
    "main_theme": "central theme",
    "tone": "tone and narrative style",
    "structure": "narrative structure",
    "key_message": "main message",
    "target_audience": "intended audience",
    "visual_style": {
      "description": "overall visual style",
      "color_palette": ["color1", "color2"],
      "atmosphere": "desired atmosphere"
    },
    "key_moments": [
      {"description": "moment", "impact": "high/medium/low", "visual_treatment": "how to treat it visually"}
    ],
    "shot_list": [
      {"shot_type": "type of shot", "movement": "camera movement", "composition": "composition", "purpose": "purpose of the shot"}
    ],
    "visual_references": [
      {"kind": "film/series/commercial/etc", "reference": "name or description", "aspect": "what to take from it"}
    ],
    "technical_elements": {
      "visual_effects": ["effects needed"],
      "graphics_animations": ["graphics or animations"],
      "post_production": ["post-production needs"]
    }
  }
}`

const segmentationTemplate = `{
  "segments": [
    {"text": "exact segment text"}
  ]
}`

const enrichmentTemplate = `{
  "segment_analyses": [
    {
      "text": "exact segment text",
      "description": "cinematic visual description capturing the atmosphere and tone of the scene",
      "storyboard": "framing, composition and camera movement for the shot (max 10 words)",
      "visual_categories": {
        "broll": [],
        "cgi_3d": [],
        "motion_graphics": [],
        "text_overlay": [],
        "infographic": [],
        "transition": []
      },
      "keywords": ["1 to 3 keywords for footage search"]
    }
  ]
}`

// BuildAnalysisPrompt asks for a full script breakdown of the narration.
func BuildAnalysisPrompt(fullText string) Request {
	var sb strings.Builder

	sb.WriteString("Analyse this narration and produce a detailed script breakdown.\n\n")
	sb.WriteString("TEXT TO ANALYSE:\n")
	sb.WriteString(fullText)
	sb.WriteString("\n\nCover:\n")
	sb.WriteString("1. Narrative: main theme, tone, structure, key message, target audience.\n")
	sb.WriteString("2. Visual: recommended style, color palette, references, atmosphere.\n")
	sb.WriteString("3. Key moments: highest impact points, important transitions, what needs visual emphasis.\n")
	sb.WriteString("4. Preliminary shot list: shot types, camera movement, composition, key transitions.\n")
	sb.WriteString("5. Technical elements: visual effects, graphics or animations, post-production needs.\n\n")
	sb.WriteString("Return only valid JSON in this format:\n")
	sb.WriteString(analysisTemplate)

	return Request{System: analysisSystemPrompt, User: sb.String()}
}

// BuildSegmentationPrompt asks for a timeless split of the narration into
// narrative units.
func BuildSegmentationPrompt(fullText string, analysis project.ScriptAnalysis) Request {
	var sb strings.Builder

	sb.WriteString("Split this text into segments using the prior script analysis and the rules below.\n\n")
	writeAnalysisSummary(&sb, analysis, false)

	sb.WriteString("SEGMENTATION RULES:\n")
	sb.WriteString("- Segments of 1-20 words based on narrative units.\n")
	sb.WriteString("- Start a new segment at punctuation (. ! ? , ; :), at sentence boundaries and at connectors ")
	sb.WriteString("such as and, or, but, because, however, also, then.\n")
	sb.WriteString("- Each segment is one complete idea or narrative beat with a natural rhythm.\n")
	sb.WriteString("- Respect natural pauses, points of emphasis and the key moments of the analysis.\n")
	sb.WriteString("- Keep every word of the narration, in order, without rewording.\n\n")
	sb.WriteString("Return only valid JSON in this format:\n")
	sb.WriteString(segmentationTemplate)
	sb.WriteString("\n\nText to process:\n")
	sb.WriteString(fullText)
	sb.WriteString("\n")

	return Request{System: segmentationSystemPrompt, User: sb.String()}
}

// BuildEnrichmentPrompt asks for a visual plan of one batch of segments.
// Segments are numbered by their position in the whole narration.
func BuildEnrichmentPrompt(batch enrich.Batch) Request {
	var sb strings.Builder

	sb.WriteString("Analyse each segment and produce a detailed visual plan, using the prior script analysis ")
	sb.WriteString("and the full narration as context.\n\n")
	writeAnalysisSummary(&sb, batch.Analysis, true)

	sb.WriteString("FULL NARRATION:\n")
	sb.WriteString(batch.Context)
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("SEGMENTS IN THIS BATCH (%d of %d):\n", batch.Index+1, batch.Total))
	for i, seg := range batch.Segments {
		sb.WriteString(fmt.Sprintf(
			"Segment %d: %q (%.2fs -> %.2fs)\n",
			batch.Offset+i+1,
			seg.Text,
			seg.Start,
			seg.End,
		))
	}

	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("1. Return exactly one entry per segment above, in the same order.\n")
	sb.WriteString("2. Stay consistent with the visual style, tone and key moments of the analysis.\n")
	sb.WriteString("3. In visual_categories include ONLY categories that have content; never empty lists.\n")
	sb.WriteString("4. Available categories:\n")
	sb.WriteString("   - broll: supporting footage that enriches the story\n")
	sb.WriteString("   - cgi_3d: renders of what cannot be filmed directly or explain complex ideas\n")
	sb.WriteString("   - motion_graphics: animated graphic elements that explain information dynamically\n")
	sb.WriteString("   - text_overlay: on-screen text with dates and key figures\n")
	sb.WriteString("   - infographic: graphics that make complex information easy to read\n")
	sb.WriteString("   - transition: editing techniques that connect scenes\n")
	sb.WriteString("5. Be specific, avoid repeating similar resources, and support the overall narrative.\n\n")
	sb.WriteString("Return only valid JSON in this format:\n")
	sb.WriteString(enrichmentTemplate)

	return Request{System: enrichmentSystemPrompt, User: sb.String()}
}

func writeAnalysisSummary(sb *strings.Builder, a project.ScriptAnalysis, detailed bool) {
	sb.WriteString("PRIOR SCRIPT ANALYSIS:\n")
	sb.WriteString(fmt.Sprintf("Main theme: %s\n", orUnspecified(a.MainTheme)))
	sb.WriteString(fmt.Sprintf("Tone: %s\n", orUnspecified(a.Tone)))
	sb.WriteString(fmt.Sprintf("Key message: %s\n", orUnspecified(a.KeyMessage)))
	if !detailed {
		sb.WriteString(fmt.Sprintf("Structure: %s\n", orUnspecified(a.Structure)))
	}
	sb.WriteString("\n")

	sb.WriteString("VISUAL STYLE:\n")
	sb.WriteString(fmt.Sprintf("Style: %s\n", orUnspecified(a.VisualStyle.Description)))
	sb.WriteString(fmt.Sprintf("Atmosphere: %s\n", orUnspecified(a.VisualStyle.Atmosphere)))
	sb.WriteString(fmt.Sprintf("Color palette: %s\n\n", joinOrUnspecified(a.VisualStyle.ColorPalette)))

	sb.WriteString("KEY MOMENTS:\n")
	for _, m := range a.KeyMoments {
		sb.WriteString(fmt.Sprintf("- %s (impact: %s)\n", m.Description, m.Impact))
	}
	sb.WriteString("\n")

	if !detailed {
		return
	}

	sb.WriteString("SHOT LIST:\n")
	for _, s := range a.ShotList {
		sb.WriteString(fmt.Sprintf("- Type: %s, movement: %s, purpose: %s\n", s.ShotType, s.Movement, s.Purpose))
	}
	sb.WriteString("\nVISUAL REFERENCES:\n")
	for _, r := range a.VisualReferences {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", r.Kind, r.Reference, r.Aspect))
	}
	sb.WriteString("\nTECHNICAL ELEMENTS:\n")
	sb.WriteString(fmt.Sprintf("Visual effects: %s\n", joinOrUnspecified(a.TechnicalElements.VisualEffects)))
	sb.WriteString(fmt.Sprintf("Graphics/animations: %s\n", joinOrUnspecified(a.TechnicalElements.GraphicsAnimations)))
	sb.WriteString(fmt.Sprintf("Post-production: %s\n\n", joinOrUnspecified(a.TechnicalElements.PostProduction)))
}

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func joinOrUnspecified(items []string) string {
	if len(items) == 0 {
		return "not specified"
	}
	return strings.Join(items, ", ")
}
