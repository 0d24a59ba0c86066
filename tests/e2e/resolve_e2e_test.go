package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-resolver/tests/testutil"
)

func TestResolveCommandE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go run e2e in short mode")
	}
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/target-resolver", "resolve",
		"--root", "fixtures/sample-repo",
		"--aliases", "fixtures/aliases.yaml",
		"--format", "json",
		"--no-color",
		"all", "app/main.cpp",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.Output()
	require.NoError(t, err, string(out))

	var decoded map[string][]string
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []string{"//app:app", "//libs/core:core", "//libs/net:net"}, decoded["all"])
	assert.Equal(t, []string{"app/main.cpp"}, decoded["app/main.cpp"])
}

func TestResolveCommandE2EExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go run e2e in short mode")
	}
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/target-resolver", "resolve",
		"--root", "fixtures/sample-repo", "--no-color", "missing.txt")
	cmd.Dir = root
	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	// go run may not forward the exact exit status.
	assert.NotEqual(t, 0, exitErr.ExitCode())
}
