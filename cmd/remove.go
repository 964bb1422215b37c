package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <path|label>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a project",
	Long:    `Remove a project from the registry. The directory itself is never touched, so a project whose directory no longer exists can still be removed.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

// runRemove executes the remove command to drop a registry entry.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is a tracked path or label
//
// Returns:
//   - error: Lookup or persistence failure
func runRemove(cmd *cobra.Command, args []string) error {
	store := openStore()
	reg, err := loadRegistry(store)
	if err != nil {
		return err
	}

	removed, err := reg.Remove(args[0])
	if err != nil {
		return err
	}

	if err := store.Save(reg); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	fmt.Printf("No longer tracking %s\n", removed.Path)
	return nil
}
