package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes args with FIXI_BASE_PATH set to basePath, returning
// stdout. The filesystem is whatever osFsSwap installed, so state persists
// across calls within a test; the fs argument itself is not used.
func runCLI(t *testing.T, fs afero.Fs, basePath string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FIXI_BASE_PATH", basePath)
	t.Setenv("FIXI_DIR_NAME", ".fixi")
	t.Setenv("FIXI_WORKSPACE", "default")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// osFsSwap points the CLI's filesystem at fs for the duration of the test.
func osFsSwap(t *testing.T, fs afero.Fs) {
	t.Helper()
	prev := osFs
	osFs = fs
	t.Cleanup(func() { osFs = prev })
}

func TestCLIScenarioInitMapPutGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	osFsSwap(t, fs)

	_, err := runCLI(t, fs, "/repo", "", "init")
	require.NoError(t, err)

	_, err = runCLI(t, fs, "/repo", "", "map", "--path", "users", "put", "alice", "u32:30")
	require.NoError(t, err)

	out, err := runCLI(t, fs, "/repo", "", "map", "--path", "users", "get", "alice")
	require.NoError(t, err)
	assert.Equal(t, "u32:30\n", out)
}

func TestCLIScenarioBytesPutGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	osFsSwap(t, fs)

	_, err := runCLI(t, fs, "/repo2", "", "init")
	require.NoError(t, err)

	_, err = runCLI(t, fs, "/repo2", "hello fixity", "bytes", "--path", "file.txt", "put")
	require.NoError(t, err)

	out, err := runCLI(t, fs, "/repo2", "", "bytes", "--path", "file.txt", "get")
	require.NoError(t, err)
	assert.Equal(t, "hello fixity", out)
}

func TestCLIScenarioMapGetMissingKeyErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	osFsSwap(t, fs)

	_, err := runCLI(t, fs, "/repo3", "", "init")
	require.NoError(t, err)

	_, err = runCLI(t, fs, "/repo3", "", "map", "--path", "users", "get", "nobody")
	require.Error(t, err)
}
