package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"resolve", "classify", "aliases"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestResolveCommandFlags(t *testing.T) {
	cmd := newResolveCommand()
	flags := []string{
		"root", "cwd", "aliases", "redis-addr", "redis-key",
		"target-config", "build-file", "workers", "format",
		"preload", "metrics",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestClassifyCommandFlags(t *testing.T) {
	cmd := newClassifyCommand()
	for _, name := range []string{"aliases", "redis-addr", "redis-key", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

// ---------- Execution tests ----------

func fixturePath(t *testing.T, parts ...string) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "..", "fixtures"))
	require.NoError(t, err)
	return filepath.Join(append([]string{root}, parts...)...)
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	root := newRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestResolveCommandJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "resolve",
		"--root", fixturePath(t, "sample-repo"),
		"--aliases", fixturePath(t, "aliases.yaml"),
		"--format", "json",
		"--no-color",
		"libs", "app/main.cpp")
	require.NoError(t, err)

	var decoded map[string][]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, []string{"//libs/core:core", "//libs/net:net"}, decoded["libs"])
	assert.Equal(t, []string{"app/main.cpp"}, decoded["app/main.cpp"])
}

func TestResolveCommandPrintsMetrics(t *testing.T) {
	_, stderr, err := executeCommand(t, "resolve",
		"--root", fixturePath(t, "sample-repo"),
		"--metrics",
		"--no-color",
		"//app:app")
	require.NoError(t, err)
	assert.Contains(t, stderr, "target_resolver_evaluator_batch_specs_total 1")
}

func TestResolveCommandMissingFile(t *testing.T) {
	_, _, err := executeCommand(t, "resolve",
		"--root", fixturePath(t, "sample-repo"),
		"--no-color",
		"missing.txt")
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeForError(err))
	assert.Equal(t, "missing.txt references non-existing file", errorMessage(err))
}

func TestClassifyCommandText(t *testing.T) {
	stdout, _, err := executeCommand(t, "classify",
		"--aliases", fixturePath(t, "aliases.yaml"),
		"--no-color",
		"app", "//libs/...", "docs/README.md")
	require.NoError(t, err)
	want := "app\talias\t//app:app\n//libs/...\tbuild-target\ndocs/README.md\tfile\n"
	assert.Equal(t, want, stdout)
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	got := resolveStrings(nil, []string{"a", "b"}, "test_key", "test-flag")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolveBoolAndInt(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.Equal(t, 42, resolveInt(nil, 42, "test_key", "test-flag"))
}

func TestResolveStringPrefersChangedFlag(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("root", "/from/config")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("root", ".", "root")
	assert.Equal(t, "/from/config", resolveString(cmd, ".", "root", "root"))

	require.NoError(t, cmd.Flags().Set("root", "/from/flag"))
	assert.Equal(t, "/from/flag", resolveString(cmd, "/from/flag", "root", "root"))
}

func TestSettingFallsBackToFlagValue(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int("workers", 4, "workers")
	assert.Equal(t, 4, resolveInt(cmd, 4, "workers", "workers"))

	viper.Set("workers", 9)
	assert.Equal(t, 9, resolveInt(cmd, 4, "workers", "workers"))
	assert.Equal(t, 9, resolveInt(nil, 0, "workers", "workers"))
	assert.Equal(t, 2, resolveInt(nil, 2, "workers", "workers"))

	viper.Set("preload", []string{"//a:a"})
	assert.Equal(t, []string{"//a:a"}, resolveStrings(nil, nil, "preload", "preload"))
}

func TestFlagChangedSeesInheritedPersistentFlags(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().String("aliases", "", "aliases")
	child := &cobra.Command{Use: "child"}
	root.AddCommand(child)

	assert.False(t, flagChanged(child, "aliases"))
	require.NoError(t, root.PersistentFlags().Set("aliases", "a.yaml"))
	assert.True(t, flagChanged(child, "aliases"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")

	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid argument", err: errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad input"), expected: 2},
		{name: "not found", err: errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("missing"), expected: 3},
		{name: "failed precondition", err: errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("resolver"), expected: 4},
		{name: "canceled", err: errbuilder.New().WithCode(errbuilder.CodeCanceled).WithMsg("interrupted"), expected: 130},
		{name: "context canceled", err: context.Canceled, expected: 130},
		{name: "internal error", err: errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("boom"), expected: 5},
		{name: "unknown error", err: assert.AnError, expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("something broke")
	assert.Equal(t, "something broke", errorMessage(err))
	assert.Equal(t, assert.AnError.Error(), errorMessage(assert.AnError))
}
