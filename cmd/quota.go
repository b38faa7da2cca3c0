package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/ratelimit"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show today's quiz generation usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := openBackend(cmd, cfg, "")
		if err != nil {
			return err
		}
		defer b.Close()

		u, err := ratelimit.New(b.counter, cfg.Quiz.DailyLimit).Usage(cmd.Context())
		if err != nil {
			return fmt.Errorf("read quota: %w", err)
		}
		printUsage(cmd, u)
		return nil
	},
}

func printUsage(cmd *cobra.Command, u ratelimit.Usage) {
	out := cmd.OutOrStdout()
	if u.Limit <= 0 {
		fmt.Fprintf(out, "Generations today: %d (no daily limit)\n", u.Count)
		return
	}
	fmt.Fprintf(out, "Generations today: %d of %d\n", u.Count, u.Limit)
	fmt.Fprintf(out, "Remaining:         %d\n", u.Remaining)
	fmt.Fprintf(out, "Resets:            %s (in %s)\n",
		u.ResetAt.Local().Format("2006-01-02 15:04"),
		time.Until(u.ResetAt).Round(time.Minute))
}
