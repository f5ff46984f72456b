package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hpquiz/internal/app"
	"github.com/abhisek/hpquiz/internal/logger"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().String("log-file", "", "Write logs to this file (logs are discarded by default)")
}

// runPlay builds the quiz in-process and launches the terminal client.
func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if f := cmd.Flags().Lookup("log-file"); f != nil && f.Value.String() != "" {
		if log, err = logger.NewWithOutput(cfg.LogMode, f.Value.String()); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
	}

	ctx := cmd.Context()
	rt, err := buildRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.close()

	return app.Run(ctx, rt.svc, app.Options{WindowSize: cfg.Session.WindowSize})
}
