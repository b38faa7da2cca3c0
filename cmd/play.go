package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}

// runPlay builds the runtime and launches the TUI. Each run is its own user,
// so an unfinished quiz does not carry over between runs.
func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(cmd, cfg, "")
	if err != nil {
		return err
	}
	defer rt.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Service:    rt.svc,
		User:       uuid.NewString(),
		SkipSplash: skip,
	})
}
