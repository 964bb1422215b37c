//go:build windows

package runner

import "os/exec"

// setProcGroup is a no-op on Windows, where exec.CommandContext already
// terminates the process adequately.
func setProcGroup(cmd *exec.Cmd) {
}

// killProcGroup kills the command's process on Windows. Killing the parent
// typically terminates children here.
//
// Parameters:
//   - cmd: The command whose process should be killed
//
// Returns:
//   - error: Error if the kill fails, nil if successful or the process never started
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
