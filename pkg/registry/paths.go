package registry

import (
	"os"
	"path/filepath"
)

// EnvStateDir overrides the state directory when set in the environment.
const EnvStateDir = "FLAKEPLOW_STATE_DIR"

// DefaultStateDir returns the directory holding the registry file.
//
// Resolution order: FLAKEPLOW_STATE_DIR, then $XDG_STATE_HOME/flakeplow,
// then ~/.local/state/flakeplow.
//
// Returns:
//   - string: Absolute state directory path
func DefaultStateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	if x := os.Getenv("XDG_STATE_HOME"); x != "" {
		return filepath.Join(x, "flakeplow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "flakeplow")
}

// RegistryPath returns the registry file path inside the given state directory.
//
// Parameters:
//   - stateDir: State directory (empty for the default)
//
// Returns:
//   - string: Full path to projects.yaml
func RegistryPath(stateDir string) string {
	if stateDir == "" {
		stateDir = DefaultStateDir()
	}
	return filepath.Join(stateDir, "projects.yaml")
}
