package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/warnings"
)

var enableCmd = &cobra.Command{
	Use:   "enable <path|label>",
	Short: "Include a project in update batches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <path|label>",
	Short: "Exclude a project from update batches without removing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], false)
	},
}

// setEnabled flips a project's enabled flag and persists the registry.
//
// A request that matches the current state warns instead of failing, and
// skips the redundant save.
//
// Parameters:
//   - ref: Tracked path or label
//   - enabled: Desired state
//
// Returns:
//   - error: Lookup or persistence failure
func setEnabled(ref string, enabled bool) error {
	store := openStore()
	reg, err := loadRegistry(store)
	if err != nil {
		return err
	}

	project, changed, err := reg.SetEnabled(ref, enabled)
	if err != nil {
		return err
	}

	state := "enabled"
	if !enabled {
		state = "disabled"
	}

	if !changed {
		warnings.Warnf("Warning: %s is already %s\n", project.DisplayName(), state)
		return nil
	}

	if err := store.Save(reg); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	fmt.Printf("%s %s\n", stateVerb(enabled), project.DisplayName())
	return nil
}

// stateVerb returns the confirmation verb for an enable/disable change.
func stateVerb(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
