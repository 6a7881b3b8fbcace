package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/envbase/internal/config"
	"github.com/phrazzld/envbase/internal/platform/logger"
	"github.com/spf13/cobra"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	env    config.Environ

	registry *logger.Registry
	log      *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	rootCmd := &cobra.Command{
		Use:   "envconf",
		Short: "Inspect prefix-scoped configuration from the environment",
		Long: `envconf loads the environment variables under a prefix the way a service
would, then prints them with sensitive values masked.

Logging is configured through LOG_LEVEL, LOG_FORMAT, LOG_ADD_SOURCE and
LOG_LEVELS, or the --log-level and --log-format flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := logger.LoadConfig(config.WithEnviron(a.env))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Format = logFormat
			}

			registry, err := logger.New(*cfg, a.errOut)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			a.registry = registry

			ctx := logger.WithLogger(cmd.Context(), registry.Logger("envconf"))
			ctx = logger.WithCorrelationID(ctx, uuid.NewString())
			a.log = logger.FromContext(ctx)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override LOG_FORMAT (json, text)")

	rootCmd.AddCommand(
		newShowCmd(a),
		newExtrasCmd(a),
	)

	return rootCmd
}
