package commands

import (
	"context"
	"fmt"

	"github.com/Reimouto/superchain-ops/config"
	"github.com/Reimouto/superchain-ops/server"
	"github.com/spf13/cobra"
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit pipeline over HTTP",
	Long: `Serve the audit pipeline over HTTP for CI-driven reviews.
POST a simulation trace to /audit to receive the rendered report and the
structured rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand()
	},
}

func serveCommand() error {
	log := newLogger()
	ctx := context.Background()

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := server.New(rt.auditor, log)
	if err := srv.Start(cfg.General.ListenAddr); err != nil {
		return fmt.Errorf("audit server failed: %v", err)
	}
	return nil
}
