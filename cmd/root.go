package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hpquiz/internal/config"
	"github.com/abhisek/hpquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "hpquiz",
	Short: "Adaptive Harry Potter trivia quiz",
	Long:  "hpquiz serves an adaptive multiple-choice trivia quiz whose questions are generated ahead of time by an LLM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log, or \"off\" (overrides HPQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Read settings from this .env file instead of ./.env")
	rootCmd.PersistentFlags().String("log-mode", "", "Log format: dev or prod (overrides HPQUIZ_LOG_MODE env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment (and .env file), then applies flag
// overrides. Flags win over env vars.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var envFiles []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	if cmd.Flags().Lookup("addr") != nil {
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Addr = a
		}
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the event log path: the configured path, or the
// default XDG path when none is set.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the event log for the read-only inspection commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !cfg.EventLogEnabled() {
		return nil, fmt.Errorf("event log is disabled (HPQUIZ_DB=%s)", config.DBDisabled)
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
