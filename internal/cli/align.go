package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/moodboard/internal/align"
	"github.com/mgpai22/moodboard/internal/events"
	"github.com/mgpai22/moodboard/internal/logging"
	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/transcript"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align narrative segments to a word-timestamped transcript",
	Long: `Align reconciles a list of narrative segments against transcript words
without calling any language model.

Words are read from a transcript_words.json file (or a bare JSON array of
{"text", "start", "end"} objects). Segments are a JSON array of strings or
{"text"} objects, optionally wrapped under "segments".

Examples:
  moodboard align --words analysis/transcript_words.json --segments segments.json
  moodboard align --words words.json --segments segments.json --threshold 60 -o aligned.json`,
	Args: cobra.NoArgs,
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().String("words", "", "Transcript words JSON file")
	alignCmd.Flags().String("segments", "", "Narrative segments JSON file")
	alignCmd.Flags().StringP("output", "o", "", "Output file (default aligned.json next to the segments file)")
	alignCmd.Flags().Float64("threshold", 0, "Minimum alignment score to keep a segment")
	_ = alignCmd.MarkFlagRequired("words")
	_ = alignCmd.MarkFlagRequired("segments")
}

type alignOutput struct {
	Segments []project.AlignedSegment `json:"segments"`
	Dropped  []project.DroppedSegment `json:"dropped,omitempty"`
}

func runAlign(cmd *cobra.Command, args []string) error {
	wordsPath, _ := cmd.Flags().GetString("words")
	segmentsPath, _ := cmd.Flags().GetString("segments")
	outputPath, _ := cmd.Flags().GetString("output")

	opts := cfg.AlignOptions()
	if cmd.Flags().Changed("threshold") {
		opts.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(segmentsPath), "aligned.json")
	}

	aligned, report, err := alignFiles(wordsPath, segmentsPath, outputPath, opts, logging.EventSink(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, alignedTable(aligned))
	if diag := diagnosticsTable(project.Diagnostics{Dropped: report.Dropped}); diag != "" {
		fmt.Fprintln(out, diag)
	}
	fmt.Fprintf(out, "Aligned segments written to %s\n", outputPath)
	return nil
}

func alignFiles(
	wordsPath, segmentsPath, outputPath string,
	opts align.Options,
	sink events.Sink,
) ([]project.AlignedSegment, align.Report, error) {
	words, err := transcript.LoadWords(wordsPath)
	if err != nil {
		return nil, align.Report{}, err
	}
	narrative, err := project.LoadNarrative(segmentsPath)
	if err != nil {
		return nil, align.Report{}, err
	}

	aligned, report, err := align.Reconcile(narrative, words, opts, sink)
	if err != nil {
		return nil, align.Report{}, err
	}

	data, err := json.MarshalIndent(alignOutput{Segments: aligned, Dropped: report.Dropped}, "", "  ")
	if err != nil {
		return nil, align.Report{}, fmt.Errorf("failed to encode aligned segments: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, align.Report{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, align.Report{}, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return aligned, report, nil
}
