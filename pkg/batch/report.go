package batch

import (
	"fmt"
	"time"
)

// Outcome classifies a finished batch as a whole.
type Outcome string

const (
	// OutcomeEmpty means the dispatch snapshot had no projects.
	OutcomeEmpty Outcome = "nothing to update"
	// OutcomeSuccess means every job succeeded.
	OutcomeSuccess Outcome = "success"
	// OutcomePartialFailure means some jobs succeeded and some did not.
	OutcomePartialFailure Outcome = "partial failure"
	// OutcomeTotalFailure means no job succeeded.
	OutcomeTotalFailure Outcome = "total failure"
)

// Report is the final accounting of a batch run: one job per dispatched
// project, in dispatch-snapshot order.
type Report struct {
	Jobs       []Job
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the wall-clock duration of the batch.
//
// Returns:
//   - time.Duration: Time between dispatch start and the last job finishing
func (r *Report) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts tallies the jobs by final status.
//
// Returns:
//   - succeeded: Jobs whose tool exited zero
//   - failed: Jobs that launched and failed, timed out, or were cut short
//   - skipped: Jobs that never started
func (r *Report) Counts() (succeeded, failed, skipped int) {
	for i := range r.Jobs {
		switch r.Jobs[i].Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// Outcome classifies the batch.
//
// TotalFailure requires that every job actually ran and failed; a batch
// containing skipped jobs (a cancelled or never-started batch) is a
// PartialFailure even when nothing succeeded.
//
// Returns:
//   - Outcome: Empty, Success, PartialFailure, or TotalFailure
func (r *Report) Outcome() Outcome {
	if len(r.Jobs) == 0 {
		return OutcomeEmpty
	}
	succeeded, failed, _ := r.Counts()
	switch {
	case succeeded == len(r.Jobs):
		return OutcomeSuccess
	case failed == len(r.Jobs):
		return OutcomeTotalFailure
	default:
		return OutcomePartialFailure
	}
}

// Summary renders the one-line batch summary.
//
// Returns:
//   - string: Counts by status plus the overall outcome
func (r *Report) Summary() string {
	succeeded, failed, skipped := r.Counts()
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped: %s",
		succeeded, failed, skipped, r.Outcome())
}
