package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the LLM API key and store setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(out, "✗ config: %v\n", err)
			return errors.New("configuration is invalid")
		}
		if cfg.File != "" {
			fmt.Fprintf(out, "✓ config: %s\n", cfg.File)
		} else {
			fmt.Fprintln(out, "✓ config: defaults and environment")
		}

		problems := checkLLM(out, cfg)
		problems += checkBackend(cmd, out, cfg)

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	},
}

// checkLLM reports on the provider that would be used and its key.
func checkLLM(out io.Writer, cfg *config.Config) int {
	lc := cfg.LLMConfig()
	if lc.Provider == llm.ProviderMock {
		fmt.Fprintln(out, "✓ llm: mock provider (no key needed)")
		return 0
	}
	fmt.Fprintf(out, "  llm: provider %s\n", lc.Provider)

	name := "llm.api_key"
	value := cfg.LLM.APIKey
	if value == "" {
		for _, v := range llm.KeyEnvVars(lc.Provider) {
			name = v
			if value = os.Getenv(v); value != "" {
				break
			}
		}
	}

	warnings := config.CheckAPIKey(name, value)
	if len(warnings) == 0 {
		fmt.Fprintf(out, "✓ llm: %s is set (%s)\n", name, config.Mask(value))
		return 0
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "✗ llm: %s\n", w)
	}
	return len(warnings)
}

// checkBackend opens the configured stores once.
func checkBackend(cmd *cobra.Command, out io.Writer, cfg *config.Config) int {
	b, err := openBackend(cmd, cfg, "")
	if err != nil {
		fmt.Fprintf(out, "✗ store: %v\n", err)
		return 1
	}
	defer b.Close()
	fmt.Fprintf(out, "✓ store: %s backend reachable\n", cfg.Store.Backend)
	return 0
}
