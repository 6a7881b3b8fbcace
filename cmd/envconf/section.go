package main

import (
	"context"
	"fmt"

	"github.com/phrazzld/envbase/internal/config"
	"github.com/phrazzld/envbase/internal/platform/logger"
	"github.com/spf13/cobra"
)

// section accepts every variable under the prefix.
type section struct {
	Fields map[string]any `mapstructure:",remain"`
}

// sectionFlags are the loading flags shared by show and extras.
type sectionFlags struct {
	prefix    string
	separator string
	maxDepth  int
	envFile   string
	output    string
}

func (f *sectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "Variable prefix, for example APP_ (required)")
	cmd.Flags().StringVar(&f.separator, "separator", config.DefaultSeparator, "Separator used in field names")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", config.DefaultMaxDepth, "Maximum nesting depth for __ segments, 0 disables nesting")
	cmd.Flags().StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "Dotenv file layered under the process environment, empty disables it")
	cmd.Flags().StringVarP(&f.output, "output", "o", formatJSON, "Output format (json, yaml)")
	_ = cmd.MarkFlagRequired("prefix")
}

// load reads the section selected by the flags.
func (f *sectionFlags) load(ctx context.Context, a *app) (map[string]any, error) {
	log := logger.FromContext(ctx)
	s := &config.Settings{
		EnvFile: f.envFile,
		Environ: a.env,
		Logger:  log,
	}

	var sec section
	err := s.Load(&sec, f.prefix,
		config.WithSeparator(f.separator),
		config.WithMaxDepth(f.maxDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to load section %q: %w", f.prefix, err)
	}

	fields := config.Fields(&sec)
	log.Debug("section loaded", "prefix", f.prefix, "fields", len(fields))
	return fields, nil
}

func newShowCmd(a *app) *cobra.Command {
	var flags sectionFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every field under a prefix with sensitive values masked",
		Example: `  envconf show --prefix APP_
  envconf show --prefix APP_ --max-depth 0 --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := flags.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			return render(a.out, flags.output, config.Printable(fields))
		},
	}
	flags.register(cmd)

	return cmd
}

func newExtrasCmd(a *app) *cobra.Command {
	var (
		flags    sectionFlags
		declared []string
	)

	cmd := &cobra.Command{
		Use:   "extras",
		Short: "Print the fields under a prefix that are not declared",
		Example: `  envconf extras --prefix APP_ --declare host,port`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := flags.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			extras := config.DeclaredSchema(declared...).Extras(fields)
			logger.FromContext(cmd.Context()).Debug("extras computed",
				"declared", len(declared),
				"extras", len(extras))
			return render(a.out, flags.output, config.Printable(extras))
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&declared, "declare", nil, "Comma separated list of declared field names")

	return cmd
}
