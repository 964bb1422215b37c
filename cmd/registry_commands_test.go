package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/warnings"
)

func TestAddThenList(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	out, err := runCommand(t, "add", dir, "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Tracking")

	out, err = runCommand(t, "list", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "proj")
	assert.NotContains(t, out, "LABEL", "label column is hidden when no project has a label")
}

func TestAddDuplicateIsConfigError(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	_, err := runCommand(t, "add", dir, "--state-dir", stateDir)
	require.NoError(t, err)

	_, err = runCommand(t, "add", dir, "--state-dir", stateDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyTracked)
	assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
}

func TestAddRejectsDirectoryWithoutDescriptor(t *testing.T) {
	stateDir := t.TempDir()
	plain := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.MkdirAll(plain, 0o755))

	_, err := runCommand(t, "add", plain, "--state-dir", stateDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotAProject)
}

func TestAddWithLabelShownInList(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	out, err := runCommand(t, "add", dir, "--label", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "api")

	out, err = runCommand(t, "list", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "api")
}

func TestRemoveByLabel(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	_, err := runCommand(t, "add", dir, "--label", "api", "--state-dir", stateDir)
	require.NoError(t, err)

	out, err := runCommand(t, "remove", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No longer tracking")

	out, err = runCommand(t, "list", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No tracked projects")
}

func TestRemoveUntrackedIsConfigError(t *testing.T) {
	_, err := runCommand(t, "remove", "ghost", "--state-dir", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotTracked)
}

func TestDisableEnableRoundTrip(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	_, err := runCommand(t, "add", dir, "--label", "api", "--state-dir", stateDir)
	require.NoError(t, err)

	out, err := runCommand(t, "disable", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled api")

	out, err = runCommand(t, "list", "--disabled", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "api")

	out, err = runCommand(t, "list", "--enabled", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No tracked projects")

	out, err = runCommand(t, "enable", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Enabled api")
}

func TestDisableTwiceWarnsInsteadOfFailing(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	_, err := runCommand(t, "add", dir, "--label", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	_, err = runCommand(t, "disable", "api", "--state-dir", stateDir)
	require.NoError(t, err)

	var warned bytes.Buffer
	restore := warnings.SetWarningWriter(&warned)
	defer restore()

	_, err = runCommand(t, "disable", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, warned.String(), "already disabled")
}

func TestListFlagConflict(t *testing.T) {
	_, err := runCommand(t, "list", "--enabled", "--disabled", "--state-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
}

func TestInfoShowsEntryAndPins(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")
	lock := `{"nodes":{"nixpkgs":{"locked":{"rev":"0123456789abcdef0123"}},"root":{"inputs":{}}},"root":"root","version":7}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, registry.LockFileName), []byte(lock), 0o644))

	_, err := runCommand(t, "add", dir, "--label", "api", "--state-dir", stateDir)
	require.NoError(t, err)

	out, err := runCommand(t, "info", "api", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Label:   api")
	assert.Contains(t, out, "State:   enabled")
	assert.Contains(t, out, "Inputs:  1 pinned")
	assert.Contains(t, out, "nixpkgs: 0123456789ab")
}

func TestInfoWithoutLockFile(t *testing.T) {
	stateDir := t.TempDir()
	dir := makeFlakeDir(t, t.TempDir(), "proj")

	_, err := runCommand(t, "add", dir, "--state-dir", stateDir)
	require.NoError(t, err)

	out, err := runCommand(t, "info", dir, "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "no readable lock file")
}

func TestCorruptedRegistryIsConfigError(t *testing.T) {
	stateDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(stateDir, "projects.yaml"),
		[]byte("projects: [broken: yaml: {{"), 0o644))

	_, err := runCommand(t, "list", "--state-dir", stateDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCorruptedState)
	assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
}
