// Package lockdiff reads dependency pin snapshots from flake.lock files and
// computes the added/removed/changed sets between two snapshots. The lock
// format is owned by the external update tool; beyond key/version pairs it
// is treated as opaque.
package lockdiff

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"
)

// Snapshot is an ordered mapping from dependency key to pinned version.
//
// Key order follows the lock file so diff output is deterministic and
// matches what the operator sees in the file itself.
type Snapshot struct {
	keys     []string
	versions map[string]string
}

// Keys returns the dependency keys in lock-file order.
//
// Returns:
//   - []string: Ordered dependency keys
func (s *Snapshot) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Version returns the pinned version for a key.
//
// Parameters:
//   - key: Dependency key to look up
//
// Returns:
//   - string: Pinned version (empty if absent)
//   - bool: true if the key is present
func (s *Snapshot) Version(key string) (string, bool) {
	v, ok := s.versions[key]
	return v, ok
}

// Len returns the number of pinned dependencies.
//
// Returns:
//   - int: Count of key/version pairs
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// ReadSnapshot reads and parses the pin snapshot at path.
//
// Parameters:
//   - path: Full path to a flake.lock file
//
// Returns:
//   - *Snapshot: Parsed snapshot
//   - error: Read or parse error (missing file included)
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(data)
}

// ParseSnapshot parses flake.lock content into an ordered snapshot.
//
// It performs the following operations:
//   - Unmarshals the JSON with an order-preserving map
//   - Walks the "nodes" object in file order, skipping the root node
//   - Extracts a version string per node: locked.rev, then locked.narHash,
//     then original.ref as fallbacks
//
// Parameters:
//   - data: Raw lock file bytes
//
// Returns:
//   - *Snapshot: Ordered key→version snapshot
//   - error: Parse error when the content is not a recognizable lock file
func ParseSnapshot(data []byte) (*Snapshot, error) {
	top := orderedmap.New()
	if err := json.Unmarshal(data, top); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}

	rootName := "root"
	if v, ok := top.Get("root"); ok {
		if name, ok := v.(string); ok && name != "" {
			rootName = name
		}
	}

	nodesVal, ok := top.Get("nodes")
	if !ok {
		return nil, fmt.Errorf("parsing lock file: missing nodes object")
	}
	nodes, ok := nodesVal.(orderedmap.OrderedMap)
	if !ok {
		return nil, fmt.Errorf("parsing lock file: nodes is not an object")
	}

	snap := &Snapshot{versions: make(map[string]string)}
	for _, key := range nodes.Keys() {
		if key == rootName {
			continue
		}
		nodeVal, _ := nodes.Get(key)
		node, ok := nodeVal.(orderedmap.OrderedMap)
		if !ok {
			continue
		}
		snap.keys = append(snap.keys, key)
		snap.versions[key] = nodeVersion(node)
	}

	return snap, nil
}

// nodeVersion extracts the best available version identifier from a node.
func nodeVersion(node orderedmap.OrderedMap) string {
	if lockedVal, ok := node.Get("locked"); ok {
		if locked, ok := lockedVal.(orderedmap.OrderedMap); ok {
			if rev, ok := stringField(locked, "rev"); ok {
				return rev
			}
			if hash, ok := stringField(locked, "narHash"); ok {
				return hash
			}
		}
	}
	if originalVal, ok := node.Get("original"); ok {
		if original, ok := originalVal.(orderedmap.OrderedMap); ok {
			if ref, ok := stringField(original, "ref"); ok {
				return ref
			}
		}
	}
	return ""
}

// stringField returns a non-empty string value for key, if present.
func stringField(m orderedmap.OrderedMap, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
