package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-resolver/internal/adapters"
	"target-resolver/internal/app"
)

type aliasOptions struct {
	File      string
	RedisAddr string
	RedisKey  string
}

func addAliasFlags(cmd *cobra.Command, opts *aliasOptions) {
	cmd.Flags().StringVar(&opts.File, "aliases", "", "Alias file (YAML with an alias: section)")
	cmd.Flags().StringVar(&opts.RedisAddr, "redis-addr", "", "Redis address serving shared aliases")
	cmd.Flags().StringVar(&opts.RedisKey, "redis-key", adapters.DefaultRedisAliasKey, "Redis hash holding shared aliases")

	_ = viper.BindPFlag("aliases_file", cmd.Flags().Lookup("aliases"))
	_ = viper.BindPFlag("redis_addr", cmd.Flags().Lookup("redis-addr"))
	_ = viper.BindPFlag("redis_key", cmd.Flags().Lookup("redis-key"))
}

// aliasSource merges alias flags with the inline alias: table of the
// config file.
func aliasSource(cmd *cobra.Command, opts aliasOptions) app.AliasSource {
	return app.AliasSource{
		Inline:    viper.GetStringMapString("alias"),
		File:      resolveString(cmd, opts.File, "aliases_file", "aliases"),
		RedisAddr: resolveString(cmd, opts.RedisAddr, "redis_addr", "redis-addr"),
		RedisKey:  resolveString(cmd, opts.RedisKey, "redis_key", "redis-key"),
	}
}

func newAliasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Inspect and share alias tables",
	}
	cmd.AddCommand(newAliasesPublishCommand())
	return cmd
}

func newAliasesPublishCommand() *cobra.Command {
	opts := aliasOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the configured alias table to Redis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAliasesPublish(cmd.Context(), cmd, opts)
		},
	}
	addAliasFlags(cmd, &opts)
	return cmd
}

func runAliasesPublish(ctx context.Context, cmd *cobra.Command, opts aliasOptions) error {
	service := app.NewService(nil)
	source := aliasSource(cmd, opts)
	published, err := service.PublishAliases(ctx, source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %d aliases to %s\n", published, source.RedisKey)
	return err
}
