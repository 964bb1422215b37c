package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flakeplow/flakeplow/pkg/errors"
)

// Registry is an ordered, in-memory set of tracked projects.
//
// Insertion order is preserved for deterministic listing and reporting.
// A Registry loaded at the start of an operation is a snapshot; concurrent
// mutation of the on-disk file does not affect it.
type Registry struct {
	projects []Project
}

// Projects returns a copy of the tracked projects in insertion order.
//
// Returns:
//   - []Project: Independent copy of the registry entries
func (r *Registry) Projects() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// EnabledProjects returns the enabled entries in insertion order.
//
// Returns:
//   - []Project: Independent copy of the enabled registry entries
func (r *Registry) EnabledProjects() []Project {
	var out []Project
	for _, p := range r.projects {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of tracked projects.
//
// Returns:
//   - int: Count of registry entries
func (r *Registry) Len() int {
	return len(r.projects)
}

// Find locates an entry by label or path.
//
// Labels are matched exactly first; otherwise the reference is canonicalized
// (tolerating deleted directories) and matched against entry paths.
//
// Parameters:
//   - ref: Label or path identifying a tracked project
//
// Returns:
//   - Project: The matching entry (zero value if not found)
//   - bool: true if a matching entry exists
func (r *Registry) Find(ref string) (Project, bool) {
	for _, p := range r.projects {
		if p.Label != "" && p.Label == ref {
			return p, true
		}
	}
	canonical := CanonicalizeLoose(ref)
	for _, p := range r.projects {
		if p.Path == canonical {
			return p, true
		}
	}
	return Project{}, false
}

// Add appends a project to the registry.
//
// The path must already be canonical (see ValidateProjectDir). Fails with
// ErrAlreadyTracked when the canonical path is present, and with
// ErrDuplicateLabel when a non-empty label is taken by another entry.
// A failed Add leaves the registry unchanged.
//
// Parameters:
//   - project: Entry to append; AddedAt defaults to now (UTC) if zero
//
// Returns:
//   - error: Wrapped ErrAlreadyTracked or ErrDuplicateLabel, nil on success
func (r *Registry) Add(project Project) error {
	for _, p := range r.projects {
		if p.Path == project.Path {
			return fmt.Errorf("%w: %s", errors.ErrAlreadyTracked, project.Path)
		}
		if project.Label != "" && p.Label == project.Label {
			return fmt.Errorf("%w: %s", errors.ErrDuplicateLabel, project.Label)
		}
	}
	if project.AddedAt.IsZero() {
		project.AddedAt = time.Now().UTC()
	}
	r.projects = append(r.projects, project)
	return nil
}

// Remove deletes the entry matching ref.
//
// Parameters:
//   - ref: Label or path identifying a tracked project
//
// Returns:
//   - Project: The removed entry
//   - error: Wrapped ErrNotTracked when no entry matches
func (r *Registry) Remove(ref string) (Project, error) {
	idx := r.indexOf(ref)
	if idx < 0 {
		return Project{}, fmt.Errorf("%w: %s", errors.ErrNotTracked, ref)
	}
	removed := r.projects[idx]
	r.projects = append(r.projects[:idx], r.projects[idx+1:]...)
	return removed, nil
}

// SetEnabled flips the enabled flag on the entry matching ref.
//
// Parameters:
//   - ref: Label or path identifying a tracked project
//   - enabled: Desired enabled state
//
// Returns:
//   - Project: The entry after the change
//   - bool: true if the state actually changed, false if it was already set
//   - error: Wrapped ErrNotTracked when no entry matches
func (r *Registry) SetEnabled(ref string, enabled bool) (Project, bool, error) {
	idx := r.indexOf(ref)
	if idx < 0 {
		return Project{}, false, fmt.Errorf("%w: %s", errors.ErrNotTracked, ref)
	}
	changed := r.projects[idx].Enabled != enabled
	r.projects[idx].Enabled = enabled
	return r.projects[idx], changed, nil
}

// indexOf returns the slice index of the entry matching ref, or -1.
func (r *Registry) indexOf(ref string) int {
	for i, p := range r.projects {
		if p.Label != "" && p.Label == ref {
			return i
		}
	}
	canonical := CanonicalizeLoose(ref)
	for i, p := range r.projects {
		if p.Path == canonical {
			return i
		}
	}
	return -1
}

// Store reads and writes the persisted registry file.
//
// Saves are atomic: the registry is serialized to a temporary file in the
// same directory, fsynced, then renamed over the canonical path. Readers
// always observe either the prior complete state or the new complete state.
type Store struct {
	filePath string
}

// NewStore creates a Store backed by the registry file in stateDir.
//
// Parameters:
//   - stateDir: State directory (empty for the default location)
//
// Returns:
//   - *Store: Store bound to stateDir/projects.yaml
func NewStore(stateDir string) *Store {
	return &Store{filePath: RegistryPath(stateDir)}
}

// FilePath returns the path of the backing registry file.
//
// Returns:
//   - string: Full path to the registry file
func (s *Store) FilePath() string {
	return s.filePath
}

// Load reads the persisted registry.
//
// A missing file yields an empty registry, not an error. A file that exists
// but cannot be parsed yields ErrCorruptedState.
//
// Returns:
//   - *Registry: Loaded registry (empty when no state file exists)
//   - error: Wrapped ErrCorruptedState or read error
func (s *Store) Load() (*Registry, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrCorruptedState, s.filePath, err)
	}

	return &Registry{projects: file.Projects}, nil
}

// Save writes the full registry atomically.
//
// It performs the following operations:
//   - Ensures the state directory exists
//   - Serializes the registry to a temporary file in the same directory
//   - Flushes the file to stable storage and closes it
//   - Renames the temporary file over the canonical state path
//   - Best-effort fsyncs the directory so the rename itself is durable
//
// A crash at any point leaves either the prior complete file or the new
// complete file on disk, never a truncated mixture.
//
// Parameters:
//   - reg: Registry to persist
//
// Returns:
//   - error: Any error that occurred during persistence
func (s *Store) Save(reg *Registry) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(registryFile{Projects: reg.projects})
	if err != nil {
		return fmt.Errorf("serializing registry: %w", err)
	}

	f, err := os.CreateTemp(dir, ".projects-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing registry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing registry file: %w", err)
	}

	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replacing registry: %w", err)
	}

	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}

	return nil
}
