package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/moodboard/internal/config"
	"github.com/mgpai22/moodboard/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moodboard",
	Short: "Turn a narration into a visual moodboard for video editing",
	Long: `Moodboard transcribes a narration, splits it into narrative segments,
aligns them to word timestamps and asks a language model for visual ideas
per segment.

It writes an SRT with the visual notes and a Premiere XML sequence with
one marker per segment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if exists {
			logger.Debugw("Loaded config", "path", path)
		}
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if logger != nil {
		logger.Errorw("Command failed", "error", err)
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default ./moodboard.toml or ~/.config/moodboard/config.toml)")
}
