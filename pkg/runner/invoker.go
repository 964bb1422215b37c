// Package runner launches the external update tool in a project directory
// and reports how each invocation finished. Launch failures and nonzero
// exits are distinct outcomes; only the former is an error.
package runner

import "context"

// Result is the outcome of one completed tool invocation.
//
// Fields:
//   - ExitCode: Process exit status (0 means success)
//   - Stdout: Captured standard output
//   - Stderr: Captured standard error
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the invocation exited zero.
//
// Returns:
//   - bool: true when the exit code is 0
func (r *Result) Ok() bool {
	return r.ExitCode == 0
}

// Invoker runs the update tool once inside a project directory.
//
// A non-nil error means the process could not be launched or was cut short
// by the context; a process that started and exited nonzero returns a
// Result with that code and a nil error.
type Invoker interface {
	Invoke(ctx context.Context, dir string) (*Result, error)
}
