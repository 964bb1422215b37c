package batch

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/flakeplow/flakeplow/pkg/lockdiff"
	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/runner"
	"github.com/flakeplow/flakeplow/pkg/verbose"
)

// DefaultTimeout bounds a single update job unless overridden.
const DefaultTimeout = 10 * time.Minute

// Options configures a batch dispatch.
//
// Fields:
//   - Jobs: Maximum concurrent jobs (0 or less means runtime.NumCPU())
//   - Timeout: Per-job time limit (0 disables the limit)
//   - Invoker: Tool invoker (nil means the nix CLI)
type Options struct {
	Jobs    int
	Timeout time.Duration
	Invoker runner.Invoker
}

func (o *Options) normalize() {
	if o.Jobs <= 0 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Invoker == nil {
		o.Invoker = runner.NewNixInvoker()
	}
}

// Dispatch runs one update job per project with bounded concurrency and
// blocks until every job has a final status.
//
// It performs the following operations:
//   - Admits at most Options.Jobs workers at a time through a semaphore
//   - Snapshots each project's lock file before and after its run
//   - Applies the per-job timeout independently of other jobs
//   - On cancellation, fails running jobs and skips jobs not yet started
//
// One project's failure never prevents the others from running; the report
// always carries exactly one job per input project, in input order.
//
// Parameters:
//   - ctx: Context whose cancellation winds down the batch
//   - projects: Dispatch snapshot, one job per entry
//   - opts: Concurrency, timeout, and invoker settings
//
// Returns:
//   - *Report: Final per-job outcomes in input order
func Dispatch(ctx context.Context, projects []registry.Project, opts Options) *Report {
	opts.normalize()

	jobs := make([]Job, len(projects))
	for i, p := range projects {
		jobs[i] = Job{Index: i, Project: p, Status: StatusPending}
	}

	start := time.Now()

	// A batch cancelled before it begins never dispatched anything.
	if ctx.Err() != nil {
		for i := range jobs {
			jobs[i].Status = StatusSkipped
			jobs[i].Reason = reasonNotDispatched
		}
		return &Report{Jobs: jobs, StartedAt: start, FinishedAt: time.Now()}
	}

	sem := make(chan struct{}, opts.Jobs)
	var wg sync.WaitGroup
	for i := range jobs {
		select {
		case <-ctx.Done():
			jobs[i].Status = StatusSkipped
			jobs[i].Reason = reasonCancelled
			verbose.ProjectSkipped(jobs[i].Project.Path, reasonCancelled)
			continue
		case sem <- struct{}{}:
		}

		// The select may win a freed slot after cancellation; re-check so
		// no job starts once the batch is winding down.
		if ctx.Err() != nil {
			<-sem
			jobs[i].Status = StatusSkipped
			jobs[i].Reason = reasonCancelled
			verbose.ProjectSkipped(jobs[i].Project.Path, reasonCancelled)
			continue
		}

		wg.Add(1)
		go func(job *Job) {
			defer wg.Done()
			defer func() { <-sem }()
			runJob(ctx, job, opts)
		}(&jobs[i])
	}
	wg.Wait()

	return &Report{Jobs: jobs, StartedAt: start, FinishedAt: time.Now()}
}

// runJob executes one job to completion and records its outcome in place.
func runJob(ctx context.Context, job *Job, opts Options) {
	job.Status = StatusRunning
	began := time.Now()
	defer func() { job.Duration = time.Since(began) }()

	lockPath := filepath.Join(job.Project.Path, registry.LockFileName)
	before, err := lockdiff.ReadSnapshot(lockPath)
	if err != nil {
		verbose.Infof("no readable lock file before update in %s: %v", job.Project.Path, err)
		before = nil
	}

	jobCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result, err := opts.Invoker.Invoke(jobCtx, job.Project.Path)
	if err != nil {
		job.Status = StatusFailed
		switch {
		case ctx.Err() != nil:
			job.Reason = reasonCancelled
		case errors.Is(err, context.DeadlineExceeded):
			job.Reason = reasonTimeout(opts.Timeout)
		default:
			job.Reason = reasonLaunchError(err)
		}
		return
	}

	job.Stdout = result.Stdout
	job.Stderr = result.Stderr
	job.ExitCode = result.ExitCode

	if !result.Ok() {
		job.Status = StatusFailed
		job.Reason = reasonExitCode(result.ExitCode)
		return
	}

	job.Status = StatusSucceeded
	after, err := lockdiff.ReadSnapshot(lockPath)
	if err != nil {
		verbose.Infof("no readable lock file after update in %s: %v", job.Project.Path, err)
		after = nil
	}
	job.Diff = lockdiff.Compare(before, after)
	for _, ch := range job.Diff.Changed {
		verbose.Infof("%s: %s %s -> %s (%s)",
			job.Project.Path, ch.Key, ch.Before, ch.After, ch.Direction)
	}
}
