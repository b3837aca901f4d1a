package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/uiharness/internal/adapters/inbound/cli"
	"github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, "uiharness.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "browser: chromium")
	assert.Contains(t, string(data), "failOn: serious,critical")
	assert.Contains(t, string(data), "# baseUrl:")
}

func TestInitCmd_RoundTripsThroughLoader(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--base-url", "http://localhost:8080"})
	require.NoError(t, root.Execute())

	cfg, err := config.NewWithEnv(func(string) (string, bool) { return "", false }).Load(tmpDir)
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.BaseURL = "http://localhost:8080"
	assert.Equal(t, want, cfg)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "uiharness.yaml"), []byte("existing"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "uiharness.yaml"), []byte("old"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, "uiharness.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "resultsDir:")
	assert.NotEqual(t, "old", string(data))
}
