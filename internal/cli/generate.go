package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/moodboard/internal/audio"
	"github.com/mgpai22/moodboard/internal/config"
	"github.com/mgpai22/moodboard/internal/logging"
	"github.com/mgpai22/moodboard/internal/oracle"
	"github.com/mgpai22/moodboard/internal/pipeline"
	"github.com/mgpai22/moodboard/internal/transcribe"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Build a moodboard from an audio or video narration",
	Long: `Generate runs the full pipeline on a narration file.

The audio is trimmed of long pauses, transcribed with word timestamps,
analysed and segmented by a language model, aligned to the transcript and
enriched with visual notes in parallel batches.

Each run gets its own folder under the output directory:
  project_NNN_YYYY-MM-DD/premiere/   XML sequence, SRT and audio asset
  project_NNN_YYYY-MM-DD/analysis/   transcript words and project.json

Examples:
  moodboard generate voiceover.mp3
  moodboard generate interview.mp4 --provider anthropic
  moodboard generate script.wav --batch-size 8 --concurrency 4 --fps 25`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("output-dir", "o", "", "Directory that receives the project folder")
	generateCmd.Flags().
		StringP("provider", "p", "", "Language model provider (openai, anthropic, gemini)")
	generateCmd.Flags().
		String("model", "", "Language model to use for analysis and enrichment")
	generateCmd.Flags().
		String("transcription-provider", "", "Transcription provider (openai, gemini)")
	generateCmd.Flags().
		String("transcription-model", "", "Transcription model")
	generateCmd.Flags().
		StringP("language", "l", "", "Narration language code (e.g., en, es)")
	generateCmd.Flags().
		Int("batch-size", 0, "Segments per enrichment request")
	generateCmd.Flags().
		Int("concurrency", 0, "Enrichment batches in flight (0 means all)")
	generateCmd.Flags().
		Float64("threshold", 0, "Minimum alignment score to keep a segment")
	generateCmd.Flags().
		Int("fps", 0, "Timeline frame rate for markers")
	generateCmd.Flags().
		Bool("no-trim", false, "Keep silences in the narration")
}

// applyGenerateFlags overrides config values with flags the user set.
func applyGenerateFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		c.Output.Dir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("provider") {
		provider, _ := flags.GetString("provider")
		c.Oracle.Provider = strings.ToLower(provider)
		c.Oracle.APIKey = config.APIKeyFromEnv(c.Oracle.Provider)
	}
	if flags.Changed("model") {
		c.Oracle.Model, _ = flags.GetString("model")
	}
	if flags.Changed("transcription-provider") {
		provider, _ := flags.GetString("transcription-provider")
		c.Transcription.Provider = strings.ToLower(provider)
		c.Transcription.APIKey = config.APIKeyFromEnv(c.Transcription.Provider)
	}
	if flags.Changed("transcription-model") {
		c.Transcription.Model, _ = flags.GetString("transcription-model")
	}
	if flags.Changed("language") {
		c.Transcription.Language, _ = flags.GetString("language")
	}
	if flags.Changed("batch-size") {
		c.Enrichment.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("concurrency") {
		c.Enrichment.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("threshold") {
		c.Alignment.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("fps") {
		c.Render.FPS, _ = flags.GetInt("fps")
	}
	if flags.Changed("no-trim") {
		noTrim, _ := flags.GetBool("no-trim")
		c.Audio.TrimSilence = !noTrim
	}
	return c.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.Oracle.APIKey == "" {
		return fmt.Errorf("%s API key is required: set it in the config file or the environment", cfg.Oracle.Provider)
	}
	if cfg.Transcription.APIKey == "" {
		return fmt.Errorf("%s API key is required for transcription", cfg.Transcription.Provider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tempDir, err := os.MkdirTemp("", "moodboard-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	completer, err := oracle.Factory(ctx, oracle.Provider(cfg.Oracle.Provider), cfg.Oracle.APIKey, cfg.OracleOptions())
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}
	completer = oracle.NewRateLimited(completer, cfg.Oracle.RequestsPerMinute)

	transcriber, err := transcribe.Factory(ctx, transcribe.Provider(cfg.Transcription.Provider), cfg.Transcription.APIKey, transcribe.Options{
		Language: cfg.Transcription.Language,
		Model:    cfg.Transcription.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	silence := audio.SilenceOptions{
		ThresholdDB: cfg.Audio.SilenceThresholdDB,
		MinSilence:  time.Duration(cfg.Audio.MinSilenceMS) * time.Millisecond,
		KeepSilence: time.Duration(cfg.Audio.KeepSilenceMS) * time.Millisecond,
	}

	p := pipeline.New(
		audio.NewPreparer(cfg.Audio.TrimSilence, silence, filepath.Join(tempDir, "prepare")),
		&transcribe.Chunked{
			Transcriber:   transcriber,
			ChunkDuration: time.Duration(cfg.Transcription.ChunkMinutes) * time.Minute,
			Concurrency:   cfg.Transcription.Concurrency,
			ScratchDir:    filepath.Join(tempDir, "transcribe"),
		},
		oracle.NewClient(completer),
		pipeline.Options{
			Align:  cfg.AlignOptions(),
			Enrich: cfg.EnrichOptions(),
			FPS:    cfg.Render.FPS,
			NTSC:   cfg.Render.NTSC,
		},
		logging.EventSink(logger),
	)

	logger.Infow("Starting moodboard generation",
		"input", mediaPath,
		"output_dir", cfg.Output.Dir,
		"provider", cfg.Oracle.Provider,
		"transcription_provider", cfg.Transcription.Provider,
		"batch_size", cfg.Enrichment.BatchSize,
		"fps", cfg.Render.FPS,
	)

	result, err := p.Run(ctx, mediaPath, cfg.Output.Dir)
	if err != nil {
		return err
	}

	printRunSummary(cmd, result)
	return nil
}

func printRunSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	proj := result.Project
	ws := result.Workspace

	rows := [][]string{
		{"Project", ws.Name},
		{"Words", fmt.Sprintf("%d", result.Words)},
		{"Segments", fmt.Sprintf("%d", proj.Metadata.SegmentCount)},
		{"Dropped", fmt.Sprintf("%d", len(proj.Metadata.Diagnostics.Dropped))},
		{"Failed batches", fmt.Sprintf("%d", len(proj.Metadata.Diagnostics.FailedBatches))},
		{"Duration", fmt.Sprintf("%.2fs", proj.Metadata.TotalDuration)},
		{"XML", ws.XMLPath()},
		{"SRT", ws.SRTPath()},
	}
	fmt.Fprintln(out, renderTable([]string{"Moodboard", "Value"}, rows, nil))

	if diag := diagnosticsTable(proj.Metadata.Diagnostics); diag != "" {
		fmt.Fprintln(out, diag)
	}
}
