package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/moodboard/internal/project"
	"github.com/mgpai22/moodboard/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [project.json]",
	Short: "Re-render the SRT and XML of a saved project",
	Long: `Render rebuilds the subtitle file and the Premiere XML sequence from a
project.json written by generate, for example to change the frame rate.

Examples:
  moodboard render moodboard_projects/project_001_2026-01-02/analysis/project.json --fps 25
  moodboard render project.json --audio narration.wav --out-dir ./premiere`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Int("fps", 0, "Timeline frame rate for markers")
	renderCmd.Flags().Bool("ntsc", false, "Mark the sequence rate as NTSC")
	renderCmd.Flags().String("audio", "", "Audio file to place on the sequence")
	renderCmd.Flags().String("out-dir", "", "Output directory (default: the project's premiere folder)")
	renderCmd.Flags().String("name", "", "Base name of the output files (default: project title)")
}

func runRender(cmd *cobra.Command, args []string) error {
	projectPath := args[0]

	p, err := project.Load(projectPath)
	if err != nil {
		return err
	}

	opts := render.MarkerOptions{FPS: cfg.Render.FPS, NTSC: cfg.Render.NTSC}
	if cmd.Flags().Changed("fps") {
		opts.FPS, _ = cmd.Flags().GetInt("fps")
	}
	if cmd.Flags().Changed("ntsc") {
		opts.NTSC, _ = cmd.Flags().GetBool("ntsc")
	}
	opts.AudioPath, _ = cmd.Flags().GetString("audio")
	outDir, _ := cmd.Flags().GetString("out-dir")
	name, _ := cmd.Flags().GetString("name")

	if outDir == "" {
		outDir = defaultRenderDir(projectPath)
	}
	if name == "" {
		name = p.Metadata.Title
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	}

	paths, err := renderProject(p, outDir, name, opts)
	if err != nil {
		return err
	}

	logger.Infow("Project rendered",
		"segments", len(p.Segments),
		"fps", opts.FPS,
		"srt", paths[0],
		"xml", paths[1],
	)
	return nil
}

// defaultRenderDir maps <run>/analysis/project.json to <run>/premiere and
// anything else to the project file's directory.
func defaultRenderDir(projectPath string) string {
	dir := filepath.Dir(projectPath)
	if filepath.Base(dir) == "analysis" {
		return filepath.Join(filepath.Dir(dir), "premiere")
	}
	return dir
}

func renderProject(p *project.Project, outDir, name string, opts render.MarkerOptions) ([]string, error) {
	if opts.SequenceName == "" {
		opts.SequenceName = "Moodboard_" + name
	}

	srtPath := filepath.Join(outDir, name+".srt")
	xmlPath := filepath.Join(outDir, name+".xml")

	if err := (&render.SRTWriter{}).Write(p, srtPath); err != nil {
		return nil, fmt.Errorf("write %s: %w", srtPath, err)
	}
	if err := render.NewXMLWriter(opts).Write(p, xmlPath); err != nil {
		return nil, fmt.Errorf("write %s: %w", xmlPath, err)
	}
	return []string{srtPath, xmlPath}, nil
}
