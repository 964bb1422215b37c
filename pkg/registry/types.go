// Package registry persists the ordered set of tracked flake projects and
// validates candidate project directories. The on-disk file is the only
// durable state flakeplow keeps; batch runs operate on an in-memory snapshot
// taken once at dispatch time.
package registry

import "time"

// DescriptorFile is the project descriptor the external update tool expects.
const DescriptorFile = "flake.nix"

// LockFileName is the dependency pin snapshot maintained by the update tool.
const LockFileName = "flake.lock"

// Project represents a tracked flake directory.
//
// Fields:
//   - Path: Canonical absolute path of the project directory (identity key)
//   - Label: Optional display name, unique across the registry when set
//   - Enabled: Whether the project participates in update batches
//   - AddedAt: When the project was added, in UTC
type Project struct {
	Path    string    `yaml:"path"`
	Label   string    `yaml:"label,omitempty"`
	Enabled bool      `yaml:"enabled"`
	AddedAt time.Time `yaml:"added_at"`
}

// DisplayName returns the label if set, otherwise the path.
//
// Returns:
//   - string: Human-facing identifier for report rows and messages
func (p Project) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Path
}

// registryFile is the on-disk YAML shape of the registry.
type registryFile struct {
	Projects []Project `yaml:"projects"`
}
