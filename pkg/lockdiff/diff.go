package lockdiff

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Change direction classifications for a changed pin.
const (
	// DirectionUpgrade means the new version is semver-greater than the old.
	DirectionUpgrade = "upgrade"
	// DirectionDowngrade means the new version is semver-less than the old.
	DirectionDowngrade = "downgrade"
	// DirectionChanged means the versions differ but are not comparable
	// (revision hashes, refs, or non-semver strings).
	DirectionChanged = "changed"
)

// Entry is a single key/version pair in an added or removed set.
type Entry struct {
	Key     string
	Version string
}

// Change records a dependency whose pinned version differs between snapshots.
//
// Fields:
//   - Key: Dependency key
//   - Before: Version pinned before the update
//   - After: Version pinned after the update
//   - Direction: DirectionUpgrade, DirectionDowngrade, or DirectionChanged
type Change struct {
	Key       string
	Before    string
	After     string
	Direction string
}

// Diff is the comparison of two pin snapshots.
//
// When either snapshot is missing or unparseable, Unavailable is set and the
// three sets are empty; an unavailable diff is a sentinel, not an error.
type Diff struct {
	Added   []Entry
	Removed []Entry
	Changed []Change

	Unavailable bool
	Reason      string
}

// Unavailable constructs the sentinel diff for a missing or unparseable snapshot.
//
// Parameters:
//   - reason: Short human-readable explanation
//
// Returns:
//   - Diff: Sentinel diff with Unavailable set
func UnavailableDiff(reason string) Diff {
	return Diff{Unavailable: true, Reason: reason}
}

// Compare computes the added/removed/changed sets between two snapshots.
//
// Added entries follow the after snapshot's key order, removed entries the
// before snapshot's key order, and changed entries the after snapshot's key
// order, so output is deterministic across runs. Unchanged keys are omitted.
//
// Parameters:
//   - before: Snapshot taken before the update (nil yields an unavailable diff)
//   - after: Snapshot taken after the update (nil yields an unavailable diff)
//
// Returns:
//   - Diff: Comparison result
func Compare(before, after *Snapshot) Diff {
	if before == nil || after == nil {
		return UnavailableDiff("snapshot missing")
	}

	var diff Diff

	for _, key := range after.keys {
		afterVersion := after.versions[key]
		beforeVersion, existed := before.versions[key]
		if !existed {
			diff.Added = append(diff.Added, Entry{Key: key, Version: afterVersion})
			continue
		}
		if beforeVersion != afterVersion {
			diff.Changed = append(diff.Changed, Change{
				Key:       key,
				Before:    beforeVersion,
				After:     afterVersion,
				Direction: classify(beforeVersion, afterVersion),
			})
		}
	}

	for _, key := range before.keys {
		if _, stillThere := after.versions[key]; !stillThere {
			diff.Removed = append(diff.Removed, Entry{Key: key, Version: before.versions[key]})
		}
	}

	return diff
}

// Empty reports whether the diff contains no additions, removals, or changes.
//
// An unavailable diff is not empty; it is unknown.
//
// Returns:
//   - bool: true when all three sets are empty and the diff is available
func (d Diff) Empty() bool {
	return !d.Unavailable && len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Summary renders a compact one-cell description of the diff.
//
// When any changed pin carries a semver-classified direction, the changed
// count is broken down into upgrade/downgrade counts.
//
// Returns:
//   - string: "diff unavailable", "no changes", or "+A ~C -R" counts,
//     with an "(U up, D down)" suffix when directions are known
func (d Diff) Summary() string {
	if d.Unavailable {
		return "diff unavailable"
	}
	if d.Empty() {
		return "no changes"
	}
	s := fmt.Sprintf("+%d ~%d -%d", len(d.Added), len(d.Changed), len(d.Removed))
	up, down := d.DirectionCounts()
	if up > 0 || down > 0 {
		s += fmt.Sprintf(" (%d up, %d down)", up, down)
	}
	return s
}

// DirectionCounts tallies the changed pins by classified direction.
//
// Pins whose versions do not both parse as semver count toward neither.
//
// Returns:
//   - up: Changed pins classified as upgrades
//   - down: Changed pins classified as downgrades
func (d Diff) DirectionCounts() (up, down int) {
	for _, ch := range d.Changed {
		switch ch.Direction {
		case DirectionUpgrade:
			up++
		case DirectionDowngrade:
			down++
		}
	}
	return up, down
}

// classify determines the change direction between two version strings.
//
// Both versions must parse as semver (with or without the "v" prefix) for an
// upgrade/downgrade classification; anything else is DirectionChanged.
func classify(before, after string) string {
	b := normalizeSemver(before)
	a := normalizeSemver(after)
	if !semver.IsValid(b) || !semver.IsValid(a) {
		return DirectionChanged
	}
	switch semver.Compare(a, b) {
	case 1:
		return DirectionUpgrade
	case -1:
		return DirectionDowngrade
	default:
		return DirectionChanged
	}
}

// normalizeSemver prepends the "v" prefix semver.IsValid expects.
func normalizeSemver(v string) string {
	if v == "" {
		return v
	}
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
