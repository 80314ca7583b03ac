package cli

import (
	"github.com/spf13/cobra"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/session"
	"github.com/aezell/crev/internal/tui"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Open an interactive review session",
		Long: `Open the terminal UI. Enter a file path to preview it, press enter to
analyze, and browse earlier reviews from the history panel. A file given on the
command line is opened straight into the preview.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{"delay": changed(cmd, "delay")})
			if err != nil {
				return err
			}
			delay, err := cfg.DelayDuration()
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			sess := session.New(analysis.NewHeuristic(delay))
			return tui.Run(sess, cfg.Upload.MaxBytes, path)
		},
	}
	cmd.Flags().String("delay", "", "analysis delay, e.g. 0 or 2s")
	return cmd
}
