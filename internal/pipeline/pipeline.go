package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mgpai22/moodboard/internal/align"
	"github.com/mgpai22/moodboard/internal/enrich"
	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/render"
	"github.com/mgpai22/moodboard/internal/transcribe"
	"github.com/mgpai22/moodboard/internal/transcript"
	"github.com/mgpai22/moodboard/internal/workspace"
)

var (
	// ErrScriptAnalysis aborts a run whose script analysis call failed.
	ErrScriptAnalysis = errors.New("script analysis failed")
	// ErrSegmentation aborts a run whose segmentation call failed or
	// returned unusable output. No output artifact is written.
	ErrSegmentation = errors.New("segmentation failed")
	// ErrEmptyTranscript is returned when transcription yields no words.
	ErrEmptyTranscript = errors.New("transcript has no words")
)

// Oracle is the language model surface used by a run.
type Oracle interface {
	AnalyzeScript(ctx context.Context, fullText string) (project.ScriptAnalysis, project.Exchange, error)
	Segment(ctx context.Context, fullText string, analysis project.ScriptAnalysis) ([]project.NarrativeSegment, project.Exchange, error)
	enrich.Enricher
}

// Preparer writes the narration audio kept with the project.
type Preparer interface {
	OutputExt(inputPath string) string
	Prepare(ctx context.Context, inputPath, outputPath string) error
}

type Options struct {
	Align  align.Options
	Enrich enrich.Options
	FPS    int
	NTSC   bool
}

// Pipeline runs media through transcription, segmentation, alignment and
// enrichment, and renders the editor artifacts.
type Pipeline struct {
	preparer    Preparer
	transcriber transcribe.Transcriber
	oracle      Oracle
	opts        Options
	sink        events.Sink
	now         func() time.Time
}

func New(
	preparer Preparer,
	transcriber transcribe.Transcriber,
	oracle Oracle,
	opts Options,
	sink events.Sink,
) *Pipeline {
	if sink == nil {
		sink = events.Discard
	}
	if opts.FPS <= 0 {
		opts.FPS = render.DefaultFPS
	}
	return &Pipeline{
		preparer:    preparer,
		transcriber: transcriber,
		oracle:      oracle,
		opts:        opts,
		sink:        sink,
		now:         time.Now,
	}
}

// Result describes a finished run.
type Result struct {
	Workspace *workspace.Workspace
	Project   *project.Project
	Align     align.Report
	Enrich    enrich.Report
	AudioPath string
	Words     int
}

// Run processes one media file into a new project folder under outputRoot.
func (p *Pipeline) Run(ctx context.Context, mediaPath, outputRoot string) (*Result, error) {
	ws, err := workspace.Allocate(ctx, outputRoot, p.now())
	if err != nil {
		return nil, err
	}
	events.Emit(p.sink, events.StageAudio, events.KindInfo,
		"Project folder created",
		"project", ws.Name,
		"dir", ws.Dir,
	)
	defer os.RemoveAll(ws.ScratchDir())

	audioPath := ws.AudioAssetPath(p.preparer.OutputExt(mediaPath))
	if err := p.preparer.Prepare(ctx, mediaPath, audioPath); err != nil {
		return nil, fmt.Errorf("prepare audio: %w", err)
	}
	events.Emit(p.sink, events.StageAudio, events.KindInfo,
		"Audio prepared",
		"path", audioPath,
	)

	events.Emit(p.sink, events.StageTranscribe, events.KindInfo, "Transcribing audio")
	transcription, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	words := transcript.NewWords(transcription.Words)
	events.Emit(p.sink, events.StageTranscribe, events.KindInfo,
		"Transcription complete",
		"words", len(words),
		"language", transcription.Language,
	)

	if err := transcript.SaveWords(ws.WordsPath(), words); err != nil {
		return nil, err
	}
	if err := render.WriteWordTimingSRT(words, ws.WordsSRTPath()); err != nil {
		return nil, err
	}

	return p.Process(ctx, ws, words, audioPath)
}

// Process runs the language model phases over an existing transcript and
// writes the project and its artifacts into ws. Script analysis and
// segmentation failures abort before anything is written.
func (p *Pipeline) Process(
	ctx context.Context,
	ws *workspace.Workspace,
	words []transcript.Word,
	audioPath string,
) (*Result, error) {
	if len(words) == 0 {
		return nil, ErrEmptyTranscript
	}
	if err := transcript.Validate(words); err != nil {
		return nil, err
	}

	proj := project.New(ws.Name, p.now())
	fullText := transcript.FullText(words)

	events.Emit(p.sink, events.StageAnalysis, events.KindInfo, "Analyzing script")
	analysis, ex, err := p.oracle.AnalyzeScript(ctx, fullText)
	proj.RecordExchange(project.PhaseScriptAnalysis, ex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptAnalysis, err)
	}
	proj.Metadata.ScriptAnalysis = analysis

	events.Emit(p.sink, events.StageSegment, events.KindInfo, "Segmenting narration")
	narrative, ex, err := p.oracle.Segment(ctx, fullText, analysis)
	proj.RecordExchange(project.PhaseSegmentation, ex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSegmentation, err)
	}
	if len(narrative) == 0 {
		return nil, fmt.Errorf("%w: no segments returned", ErrSegmentation)
	}
	events.Emit(p.sink, events.StageSegment, events.KindInfo,
		"Segmentation complete",
		"segments", len(narrative),
	)

	aligned, alignReport, err := align.Reconcile(narrative, words, p.opts.Align, p.sink)
	if err != nil {
		return nil, err
	}

	coordinator := enrich.NewCoordinator(p.oracle, p.opts.Enrich, p.sink)
	enriched, enrichReport := coordinator.Enrich(ctx, aligned, "", analysis)

	proj.SetSegments(enriched)
	proj.Metadata.Diagnostics = project.Diagnostics{
		Dropped:       alignReport.Dropped,
		FailedBatches: enrichReport.Failed,
		ShortBatches:  enrichReport.Short,
	}

	if err := p.writeArtifacts(proj, ws, audioPath); err != nil {
		return nil, err
	}

	return &Result{
		Workspace: ws,
		Project:   proj,
		Align:     alignReport,
		Enrich:    enrichReport,
		AudioPath: audioPath,
		Words:     len(words),
	}, nil
}

func (p *Pipeline) writeArtifacts(proj *project.Project, ws *workspace.Workspace, audioPath string) error {
	if err := proj.Save(ws.ProjectPath()); err != nil {
		return err
	}

	writers := []struct {
		path   string
		writer render.Writer
	}{
		{ws.SRTPath(), &render.SRTWriter{}},
		{ws.XMLPath(), render.NewXMLWriter(render.MarkerOptions{
			FPS:          p.opts.FPS,
			NTSC:         p.opts.NTSC,
			AudioPath:    audioPath,
			SequenceName: "Moodboard_" + ws.Name,
		})},
	}
	for _, w := range writers {
		if err := w.writer.Write(proj, w.path); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		events.Emit(p.sink, events.StageRender, events.KindInfo,
			"Artifact written",
			"path", w.path,
		)
	}
	return nil
}
