package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/templui/goalvoice/internal/app"
	"github.com/templui/goalvoice/internal/config"
	"github.com/templui/goalvoice/internal/logger"
	"github.com/templui/goalvoice/internal/routes"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			logger.Init(logger.Options{
				Development: cfg.IsDevelopment(),
				SentryDSN:   cfg.SentryDSN,
				Environment: cfg.AppEnv,
			})

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			defer func() {
				closeErr := a.Close()
				if closeErr != nil {
					slog.Error("failed to close app", "error", closeErr)
				}
			}()

			return a.Serve(cmd.Context(), routes.SetupRoutes(a))
		},
	}
}
