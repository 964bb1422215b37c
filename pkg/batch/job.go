// Package batch dispatches update jobs across tracked projects with bounded
// concurrency, isolates per-project failures, and folds the results into a
// deterministic report.
package batch

import (
	"fmt"
	"time"

	"github.com/flakeplow/flakeplow/pkg/lockdiff"
	"github.com/flakeplow/flakeplow/pkg/registry"
)

// Status is the lifecycle state of one update job.
type Status string

const (
	// StatusPending means the job has not been picked up by a worker yet.
	StatusPending Status = "pending"
	// StatusRunning means a worker is executing the job.
	StatusRunning Status = "running"
	// StatusSucceeded means the update tool exited zero.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the tool failed to launch, exited nonzero, timed
	// out, or was cancelled mid-run.
	StatusFailed Status = "failed"
	// StatusSkipped means the job never started.
	StatusSkipped Status = "skipped"
)

// Job is one project's slot in a batch run.
//
// Index is the project's position in the dispatch snapshot and fixes the
// job's place in the report regardless of completion order.
type Job struct {
	Index   int
	Project registry.Project

	Status   Status
	Reason   string
	ExitCode int
	Duration time.Duration
	Diff     lockdiff.Diff

	// Stdout and Stderr hold the tool's captured output for jobs whose
	// process ran to completion.
	Stdout string
	Stderr string
}

// Reason constructors keep the report wording consistent.

func reasonLaunchError(err error) string {
	return fmt.Sprintf("launch error: %v", err)
}

func reasonExitCode(code int) string {
	return fmt.Sprintf("exit code %d", code)
}

func reasonTimeout(limit time.Duration) string {
	return fmt.Sprintf("timed out after %s", limit)
}

const (
	reasonCancelled     = "cancelled"
	reasonNotDispatched = "not dispatched"
)

// ChangeSummary renders the job's lock-file change cell.
//
// Returns:
//   - string: Diff summary for succeeded jobs, "-" otherwise
func (j *Job) ChangeSummary() string {
	if j.Status != StatusSucceeded {
		return "-"
	}
	return j.Diff.Summary()
}

// StatusCell renders the job's status cell, including the failure or skip
// reason when one exists.
//
// Returns:
//   - string: Status, optionally suffixed with the reason in parentheses
func (j *Job) StatusCell() string {
	if j.Reason == "" {
		return string(j.Status)
	}
	return fmt.Sprintf("%s (%s)", j.Status, j.Reason)
}
