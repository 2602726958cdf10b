package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		candidates candidateFlags
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the triage operations as a JSON API",
		Long: `Start an HTTP server exposing check, similar, analyze, and triage over
JSON. The candidate corpus is loaded once at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			logger := newLogger()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			corpus, err := candidates.load(ctx, cfg, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, corpus, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			defer srv.Close()

			return srv.Start(ctx)
		},
	}

	candidates.addFlags(cmd)
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}
