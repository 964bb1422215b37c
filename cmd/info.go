package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/lockdiff"
	"github.com/flakeplow/flakeplow/pkg/registry"
)

var infoCmd = &cobra.Command{
	Use:   "info <path|label>",
	Short: "Show details for one tracked project",
	Long:  `Print a tracked project's registry entry and, when the lock file is readable, its current dependency pins.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

// runInfo executes the info command for a single registry entry.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is a tracked path or label
//
// Returns:
//   - error: Lookup or registry load failure
func runInfo(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(openStore())
	if err != nil {
		return err
	}

	project, ok := reg.Find(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrNotTracked, args[0])
	}

	fmt.Printf("Path:    %s\n", project.Path)
	if project.Label != "" {
		fmt.Printf("Label:   %s\n", project.Label)
	}
	fmt.Printf("State:   %s\n", projectState(project))
	fmt.Printf("Added:   %s\n", project.AddedAt.Format("2006-01-02 15:04 MST"))

	snap, err := lockdiff.ReadSnapshot(filepath.Join(project.Path, registry.LockFileName))
	if err != nil {
		fmt.Println("Inputs:  (no readable lock file)")
		return nil
	}

	fmt.Printf("Inputs:  %d pinned\n", snap.Len())
	for _, key := range snap.Keys() {
		version, _ := snap.Version(key)
		fmt.Printf("  %s: %s\n", key, shortVersion(version))
	}
	return nil
}

// shortVersion abbreviates long revision hashes for display.
func shortVersion(v string) string {
	if strings.HasPrefix(v, "sha256-") {
		return v
	}
	if len(v) > 12 && !strings.ContainsAny(v, "./-") {
		return v[:12]
	}
	return v
}
