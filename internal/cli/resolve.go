package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-resolver/internal/adapters"
	"target-resolver/internal/app"
	"target-resolver/internal/types"
)

type resolveOptions struct {
	Root         string
	WorkingDir   string
	Aliases      aliasOptions
	TargetConfig string
	BuildFile    string
	Workers      int
	Format       string
	Preload      []string
	Metrics      bool
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [patterns...]",
		Short: "Resolve target patterns, aliases and files into targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", ".", "Project root")
	cmd.Flags().StringVar(&opts.WorkingDir, "cwd", "", "Working directory for relative patterns (defaults to the root)")
	cmd.Flags().StringVar(&opts.TargetConfig, "target-config", "", "Target configuration applied to resolved build targets")
	cmd.Flags().StringVar(&opts.BuildFile, "build-file", adapters.DefaultBuildFileName, "Build file name")
	cmd.Flags().IntVar(&opts.Workers, "workers", 8, "Concurrent build file loaders")
	cmd.Flags().StringVar(&opts.Format, "format", string(types.OutputFormatText), "Output format (text, json, yaml)")
	cmd.Flags().StringSliceVar(&opts.Preload, "preload", nil, "Patterns resolved first to warm the cache")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Print resolver metrics to stderr after the run")
	addAliasFlags(cmd, &opts.Aliases)

	_ = viper.BindPFlag("root", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("cwd", cmd.Flags().Lookup("cwd"))
	_ = viper.BindPFlag("target_config", cmd.Flags().Lookup("target-config"))
	_ = viper.BindPFlag("build_file", cmd.Flags().Lookup("build-file"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("preload", cmd.Flags().Lookup("preload"))
	_ = viper.BindPFlag("metrics", cmd.Flags().Lookup("metrics"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions, patterns []string) error {
	service := app.NewService(adapters.NewOutputWriterAdapter(cmd.OutOrStdout(), !color.NoColor))
	req := app.ResolveRequest{
		ProjectRoot:   resolveString(cmd, opts.Root, "root", "root"),
		WorkingDir:    resolveString(cmd, opts.WorkingDir, "cwd", "cwd"),
		Patterns:      patterns,
		Preload:       resolveStrings(cmd, opts.Preload, "preload", "preload"),
		Aliases:       aliasSource(cmd, opts.Aliases),
		TargetConfig:  resolveString(cmd, opts.TargetConfig, "target_config", "target-config"),
		BuildFileName: resolveString(cmd, opts.BuildFile, "build_file", "build-file"),
		Workers:       resolveInt(cmd, opts.Workers, "workers", "workers"),
		Format:        types.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
	}
	result, err := service.Resolve(ctx, req)
	if resolveBool(cmd, opts.Metrics, "metrics", "metrics") {
		if writeErr := writeMetrics(cmd.ErrOrStderr(), service.Registry); writeErr != nil {
			log.Warn().Err(writeErr).Msg("failed to write metrics")
		}
	}
	if err != nil {
		return err
	}
	log.Debug().
		Int("patterns", len(result.Results)).
		Int("cached", result.Cached).
		Msg("resolve finished")
	return nil
}

func writeMetrics(out io.Writer, registry prometheus.Gatherer) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(out, family); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
