package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flakeplow/flakeplow/pkg/errors"
)

// Canonicalize resolves a user-supplied path to a canonical absolute path.
//
// Relative paths are resolved against the current working directory and
// symlinks are fully resolved, so two spellings of the same directory always
// produce the same key. The path must exist.
//
// Parameters:
//   - path: User-supplied path, absolute or relative
//
// Returns:
//   - string: Canonical absolute path with symlinks resolved
//   - error: Error if the path cannot be resolved
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", path, err)
	}
	return real, nil
}

// CanonicalizeLoose resolves a path like Canonicalize but tolerates paths
// that no longer exist, falling back to the cleaned absolute path.
//
// This keeps remove working for projects whose directory has been deleted
// since they were tracked.
//
// Parameters:
//   - path: User-supplied path, absolute or relative
//
// Returns:
//   - string: Canonical path when resolvable, cleaned absolute path otherwise
func CanonicalizeLoose(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return filepath.Clean(abs)
}

// ValidateProjectDir canonicalizes a candidate path and checks that it is a
// trackable project directory.
//
// It performs the following operations:
//   - Resolves the path to its canonical absolute form
//   - Verifies the resolved path is a directory (ErrNotADirectory otherwise)
//   - Verifies the directory contains flake.nix (ErrNotAProject otherwise)
//
// Validation never mutates the registry.
//
// Parameters:
//   - path: User-supplied candidate path
//
// Returns:
//   - string: Canonical absolute path on success
//   - error: Wrapped ErrNotADirectory or ErrNotAProject on failure
func ValidateProjectDir(path string) (string, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrNotADirectory, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrNotADirectory, canonical)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", errors.ErrNotADirectory, canonical)
	}

	descriptor := filepath.Join(canonical, DescriptorFile)
	if info, err := os.Stat(descriptor); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", errors.ErrNotAProject, canonical)
	}

	return canonical, nil
}
