package registry

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flakeplow/flakeplow/pkg/errors"
)

func TestValidateProjectDirAcceptsFlakeDirectory(t *testing.T) {
	parent := t.TempDir()
	dir := makeFlakeDir(t, parent, "proj")

	canonical, err := ValidateProjectDir(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(canonical))

	info, err := os.Stat(filepath.Join(canonical, DescriptorFile))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestValidateProjectDirRejectsMissingPath(t *testing.T) {
	_, err := ValidateProjectDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotADirectory)
}

func TestValidateProjectDirRejectsRegularFile(t *testing.T) {
	parent := t.TempDir()
	file := filepath.Join(parent, "flake.nix")
	require.NoError(t, os.WriteFile(file, []byte("{ }\n"), 0o644))

	_, err := ValidateProjectDir(file)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotADirectory)
}

func TestValidateProjectDirRejectsDirectoryWithoutDescriptor(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "plain")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	_, err := ValidateProjectDir(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotAProject)
}

func TestValidateProjectDirResolvesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	parent := t.TempDir()
	real := makeFlakeDir(t, parent, "real")
	link := filepath.Join(parent, "link")
	require.NoError(t, os.Symlink(real, link))

	fromReal, err := ValidateProjectDir(real)
	require.NoError(t, err)
	fromLink, err := ValidateProjectDir(link)
	require.NoError(t, err)

	assert.Equal(t, fromReal, fromLink, "two spellings of one directory must share a canonical key")
}

func TestCanonicalizeSameKeyPreventsDuplicateTracking(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	parent := t.TempDir()
	real := makeFlakeDir(t, parent, "real")
	link := filepath.Join(parent, "alias")
	require.NoError(t, os.Symlink(real, link))

	canonical, err := ValidateProjectDir(real)
	require.NoError(t, err)

	reg := &Registry{}
	require.NoError(t, reg.Add(Project{Path: canonical, Enabled: true}))

	viaLink, err := ValidateProjectDir(link)
	require.NoError(t, err)
	err = reg.Add(Project{Path: viaLink, Enabled: true})
	assert.ErrorIs(t, err, errors.ErrAlreadyTracked)
}

func TestCanonicalizeLooseFallsBackForMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ghost")
	got := CanonicalizeLoose(missing)
	assert.True(t, filepath.IsAbs(got))
}
