// Package cmd implements the command-line interface for flakeplow.
// It provides commands for tracking flake project directories and running
// batch updates across all of them.
package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/verbose"
)

var exitFunc = os.Exit
var verboseFlag bool
var versionFlag bool
var stateDirFlag string

var rootCmd = &cobra.Command{
	Use:   "flakeplow",
	Short: "Track flake projects and update them in one sweep",
	Long:  `Track Nix flake project directories across the machine and run 'nix flake update' over all of them in one invocation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag {
			printVersionOutput()
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success (including an empty registry)
//   - 1: Partial failure (some projects updated, some did not)
//   - 2: Complete failure (no project updated)
//   - 3: Registry, validation, or persistence error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		var partialErr *errors.PartialSuccessError
		if stderrors.As(err, &partialErr) {
			code = errors.ExitPartialFailure
			verbose.Infof("Exit code %d: partial success - %d succeeded, %d failed, %d skipped",
				code, partialErr.Succeeded, partialErr.Failed, partialErr.Skipped)
		} else {
			verbose.Infof("Exit code %d: %v", code, err)
		}

		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Unlike Execute(), this function returns the error directly without calling
// os.Exit, making it suitable for use in test suites.
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "Override the registry state directory")

	// -v/--version only works on the root command
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")

	// Commands ordered logically: version → registry mutation → inspection → update
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(updateCmd)
}

// openStore returns the registry store honoring --state-dir and the
// FLAKEPLOW_STATE_DIR environment variable.
func openStore() *registry.Store {
	store := registry.NewStore(stateDirFlag)
	verbose.Infof("Registry file: %s", store.FilePath())
	return store
}

// loadRegistry loads the persisted registry through the store.
//
// Parameters:
//   - store: Store to read from
//
// Returns:
//   - *registry.Registry: Loaded registry snapshot
//   - error: Load failure, already carrying the corrupted-state sentinel
//     when the file exists but cannot be parsed
func loadRegistry(store *registry.Store) (*registry.Registry, error) {
	reg, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return reg, nil
}
