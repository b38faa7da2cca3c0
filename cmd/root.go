package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "AI-generated multiple-choice quizzes on any topic",
	Long: `quizgen turns a topic into a short multiple-choice quiz generated by an LLM,
walks you through it one question at a time, and scores it with explanations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZGEN_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a quizgen.yaml config file")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config, or searches the default
// locations.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.db_path from config, then QUIZGEN_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.DBPath != "" {
		return cfg.Store.DBPath, store.EnsureDir(cfg.Store.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the SQLite store, for commands that only
// read the local database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
