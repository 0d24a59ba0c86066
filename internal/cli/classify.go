package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-resolver/internal/app"
	"target-resolver/internal/types"
)

type classifyOptions struct {
	Aliases aliasOptions
	Format  string
}

func newClassifyCommand() *cobra.Command {
	opts := classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify [patterns...]",
		Short: "Show whether each pattern is an alias, a build target pattern or a file",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", string(types.OutputFormatText), "Output format (text, json)")
	addAliasFlags(cmd, &opts.Aliases)
	_ = viper.BindPFlag("classify_format", cmd.Flags().Lookup("format"))
	return cmd
}

func runClassify(ctx context.Context, cmd *cobra.Command, opts classifyOptions, patterns []string) error {
	service := app.NewService(nil)
	result, err := service.Classify(ctx, app.ClassifyRequest{
		Patterns: patterns,
		Aliases:  aliasSource(cmd, opts.Aliases),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch types.OutputFormat(resolveString(cmd, opts.Format, "classify_format", "format")) {
	case types.OutputFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result.Patterns)
	case "", types.OutputFormatText:
		label := color.New(color.FgGreen)
		for _, entry := range result.Patterns {
			line := fmt.Sprintf("%s\t%s", entry.Pattern, label.Sprint(entry.Disposition))
			if len(entry.Expansions) > 0 {
				line += "\t" + strings.Join(entry.Expansions, " ")
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + opts.Format)
	}
}
