package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/verbose"
)

var addLabelFlag string

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Start tracking a flake project directory",
	Long:  `Validate that the directory contains a flake.nix descriptor and add it to the registry. New projects are enabled.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addLabelFlag, "label", "l", "", "Display name for the project (unique)")
}

// runAdd executes the add command to begin tracking a project directory.
//
// The path is canonicalized (absolute, symlinks resolved) before insertion
// so two spellings of one directory can never be tracked twice.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is the project directory path
//
// Returns:
//   - error: Validation, duplicate, or persistence failure
func runAdd(cmd *cobra.Command, args []string) error {
	canonical, err := registry.ValidateProjectDir(args[0])
	if err != nil {
		return err
	}
	verbose.Infof("Canonical path: %s", canonical)

	store := openStore()
	reg, err := loadRegistry(store)
	if err != nil {
		return err
	}

	if err := reg.Add(registry.Project{
		Path:    canonical,
		Label:   addLabelFlag,
		Enabled: true,
	}); err != nil {
		return err
	}

	if err := store.Save(reg); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	if addLabelFlag != "" {
		fmt.Printf("Tracking %s (%s)\n", canonical, addLabelFlag)
	} else {
		fmt.Printf("Tracking %s\n", canonical)
	}
	return nil
}
