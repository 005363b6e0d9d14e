// Command studyctl is the operator CLI for the flashcard scheduling engine.
// It opens the configured card store, prints study queues and forgetting
// forecasts, records reviews and seeds decks.
//
// Configuration comes from --config (or CONFIG_PATH, or ./config.yaml)
// plus environment variables.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashcard-scheduler/internal/app"
	"github.com/heartmarshall/flashcard-scheduler/internal/config"
	"github.com/heartmarshall/flashcard-scheduler/pkg/ctxutil"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "Operate the spaced-repetition scheduling engine",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("CONFIG_PATH")
			}
			var err error
			cfg, err = config.LoadFrom(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger = app.NewLogger(cfg.Log)
			cmd.SetContext(ctxutil.WithRunID(cmd.Context(), uuid.NewString()))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", formatText, "output format: text, json or yaml")

	rootCmd.AddCommand(
		queueCmd(),
		forecastCmd(),
		reviewCmd(),
		sessionCmd(),
		seedCmd(),
		migrateCmd(),
		versionCmd(),
	)

	return rootCmd
}

// openEngine opens the card store named in the loaded config.
func openEngine(cmd *cobra.Command) (*app.Engine, error) {
	engine, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening engine: %w", err)
	}
	return engine, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending card store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			engine.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		// Skip config loading: version must work without a config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
