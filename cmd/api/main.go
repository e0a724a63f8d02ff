package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"pantryapi/internal/app"
	"pantryapi/internal/config"
	"pantryapi/internal/logger"
	"pantryapi/internal/otel"
)

const Version = "1.0.0"

// @title Pantry Inventory API
// @version 1.0
// @description CRUD service for pantry items.
// @BasePath /
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	// Configuration comes from the environment (.env auto-loaded if present).
	setup := func() (*config.AppConfig, *logger.Logger) {
		cfg := config.Load()
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		log := logger.New(logger.Options{
			ServiceName: otel.DefaultServiceName,
			Level:       cfg.Log.Level,
			Format:      cfg.Log.Format,
		})
		return cfg, log
	}

	serve := func(cmd *cobra.Command, _ []string) error {
		cfg, log := setup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			log.Error(ctx, err).Msg("startup failed")
			return err
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				log.Error(context.Background(), err).Msg("shutdown incomplete")
			}
		}()

		return a.Run(ctx)
	}

	cmd := &cobra.Command{
		Use:           "pantryapi",
		Short:         "Pantry inventory HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Apply the schema if needed and serve HTTP (default)",
		RunE:  serve,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := setup()
			return app.Migrate(cmd.Context(), cfg, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pantryapi version %s\n", Version)
		},
	})

	return cmd
}
