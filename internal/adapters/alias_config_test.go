package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasConfigAdapter_Lookup(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{
		"app":   "//app:app",
		"tools": "//tools:lint //tools:fmt",
	})
	require.NoError(t, err)

	got, err := adapter.Lookup(t.Context(), "tools")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"//tools:lint", "//tools:fmt"}, got); diff != "" {
		t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
	}
}

func TestAliasConfigAdapter_NotAnAlias(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{"app": "//app:app"})
	require.NoError(t, err)

	for _, pattern := range []string{"other", "//app:app", "src/main.cpp", ""} {
		got, err := adapter.Lookup(t.Context(), pattern)
		require.NoError(t, err)
		assert.Empty(t, got, pattern)
	}
}

func TestAliasConfigAdapter_NormalizesPackageShorthand(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{"lib": "//libs/core cell//libs/net/"})
	require.NoError(t, err)

	got, err := adapter.Lookup(t.Context(), "lib")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"//libs/core:core", "cell//libs/net:net"}, got); diff != "" {
		t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
	}
}

func TestAliasConfigAdapter_ExpandsNestedAliases(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{
		"app":        "//app:app",
		"tools":      "//tools:lint //app:app",
		"everything": "app tools",
	})
	require.NoError(t, err)

	got, err := adapter.Lookup(t.Context(), "everything")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"//app:app", "//tools:lint"}, got); diff != "" {
		t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
	}
}

func TestAliasConfigAdapter_AppendsFlavor(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{"app": "//app:app //app:cli#static"})
	require.NoError(t, err)

	got, err := adapter.Lookup(t.Context(), "app#debug")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"//app:app#debug", "//app:cli#static,debug"}, got); diff != "" {
		t.Fatalf("unexpected expansion (-want +got):\n%s", diff)
	}
}

func TestAliasConfigAdapter_RejectsCycles(t *testing.T) {
	_, err := NewAliasConfigAdapter(map[string]string{
		"a": "b",
		"b": "a",
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "alias cycle detected")
}

func TestAliasConfigAdapter_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
	}{
		{name: "bad name", aliases: map[string]string{"1app": "//app:app"}},
		{name: "empty value", aliases: map[string]string{"app": "  "}},
		{name: "unknown alias", aliases: map[string]string{"app": "missing"}},
		{name: "relative target", aliases: map[string]string{"app": "app:app"}},
		{name: "recursive pattern", aliases: map[string]string{"app": "//app/..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAliasConfigAdapter(tt.aliases)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

func TestAliasConfigAdapter_Names(t *testing.T) {
	adapter, err := NewAliasConfigAdapter(map[string]string{"b": "//b:b", "a": "//a:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, adapter.Names())
}

func TestLoadAliasConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "alias:\n  app: //app:app\n  everything: app //tools:lint\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	adapter, err := LoadAliasConfigFile(path)
	require.NoError(t, err)
	got, err := adapter.Lookup(t.Context(), "everything")
	require.NoError(t, err)
	assert.Equal(t, []string{"//app:app", "//tools:lint"}, got)
}

func TestLoadAliasConfigFile_Missing(t *testing.T) {
	_, err := LoadAliasConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
