package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setting resolves one option from, in order: a flag the user set on the
// command line, the viper key (config file or TARGET_RESOLVER_* env), and
// finally the flag's own value. Without a command, a non-empty value wins.
func setting[T any](cmd *cobra.Command, value T, empty bool, key string, flagName string, fromConfig func(string) T) T {
	if cmd == nil {
		if !empty || !viper.IsSet(key) {
			return value
		}
		return fromConfig(key)
	}
	if flagChanged(cmd, flagName) || !viper.IsSet(key) {
		return value
	}
	return fromConfig(key)
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	return setting(cmd, value, value == "", key, flagName, viper.GetString)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	return setting(cmd, values, len(values) == 0, key, flagName, viper.GetStringSlice)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	return setting(cmd, value, !value, key, flagName, viper.GetBool)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	return setting(cmd, value, value == 0, key, flagName, viper.GetInt)
}

// flagChanged reports whether name was set explicitly, looking at local
// flags first and then persistent flags inherited from parents.
func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	flag := cmd.Flag(name)
	return flag != nil && flag.Changed
}
