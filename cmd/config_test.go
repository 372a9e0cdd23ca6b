package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/config"
	"github.com/iksnae/flux-workspace/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `reply_policy = "active"`)
	assert.Contains(t, out, "[texts]")

	t.Setenv("FLUX_REPLY_POLICY", "origin")
	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `reply_policy = "origin"`)
}

func TestConfigCommand_FileAndValidation(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := testutil.CreateConfigFixture(t, dir, `default_session = "python"`)

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `default_session = "python"`)

	bad := testutil.CreateConfigFixture(t, t.TempDir(), `reply_policy = "sometimes"`)
	_, err = execute(t, "config", "--config", bad)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestConfigCommand_Write(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "--write", "--catalog", "/srv/catalog.yaml")
	require.NoError(t, err)

	path, err := config.DefaultPath()
	require.NoError(t, err)
	assert.Contains(t, path, home)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# flux configuration file")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog.yaml", loaded.CatalogPath)

	explicit := filepath.Join(t.TempDir(), "flux.toml")
	_, err = execute(t, "config", "--write", "--config", explicit)
	assert.Error(t, err, "--config must exist before it is loaded")
}

func TestHealthcheckCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "healthcheck", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "Flux Health Check")
	assert.Contains(t, out, "Found 6 session(s)")
	assert.Contains(t, out, "Snapshots disabled")
	assert.Contains(t, out, "react (")
}

func TestHealthcheckCommand_Snapshot(t *testing.T) {
	isolate(t)
	stateDir := t.TempDir()

	rig, err := internal.NewTestRig(internal.Options{}, internal.CreateTestSession("alpha"))
	require.NoError(t, err)
	require.NoError(t, internal.NewSnapshotStore(stateDir).Save(rig.Workspace.Snapshot()))

	out, err := execute(t, "doctor", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot with 1 session(s)")
}

func TestHealthcheckCommand_Fails(t *testing.T) {
	isolate(t)
	path := testutil.CreateConfigFixture(t, t.TempDir(), `default_session = "nope"`)

	out, err := execute(t, "healthcheck", "--config", path)
	assert.ErrorContains(t, err, "health check failed")
	assert.Contains(t, out, "session not found: nope")
}
