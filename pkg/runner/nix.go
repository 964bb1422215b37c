package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/flakeplow/flakeplow/pkg/verbose"
)

// updateArgs is the tool invocation that refreshes a project's pins.
// Swappable in tests to run a harmless command instead.
var updateArgs = []string{"nix", "flake", "update"}

// NixInvoker runs `nix flake update` in a project directory.
type NixInvoker struct{}

// NewNixInvoker constructs the default invoker.
//
// Returns:
//   - *NixInvoker: Invoker backed by the nix CLI
func NewNixInvoker() *NixInvoker {
	return &NixInvoker{}
}

// Invoke executes the update tool inside dir and waits for it to finish.
//
// It performs the following operations:
//   - Starts the process in its own process group
//   - Captures stdout and stderr separately
//   - Kills the whole process group when the context expires
//   - Translates a nonzero exit into a Result, not an error
//
// Parameters:
//   - ctx: Context whose deadline or cancellation aborts the run
//   - dir: Project directory the tool runs in
//
// Returns:
//   - *Result: Exit code and captured output (nil on launch failure or abort)
//   - error: Launch failure or the context's error after an abort
func (n *NixInvoker) Invoke(ctx context.Context, dir string) (*Result, error) {
	cmdStr := strings.Join(updateArgs, " ")
	verbose.CommandExec(cmdStr, dir)

	cmd := exec.CommandContext(ctx, updateArgs[0], updateArgs[1:]...)
	cmd.Dir = dir

	// Run in its own process group so the tool's children die with it
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		if killErr := killProcGroup(cmd); killErr != nil {
			verbose.Infof("failed to kill process group: %v", killErr)
		}
		return nil, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result := &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
			verbose.CommandResult(cmdStr, result.ExitCode, result.Stderr)
			return result, nil
		}
		return nil, fmt.Errorf("launching %q: %w", cmdStr, err)
	}

	result := &Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}
	verbose.CommandResult(cmdStr, 0, result.Stdout)
	return result, nil
}
