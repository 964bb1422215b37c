package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/batch"
	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/output"
	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/warnings"
)

var (
	updateJobsFlag    int
	updateTimeoutFlag int
	updateOnlyFlag    []string
)

// dispatchFunc is swappable in tests to avoid launching real processes.
var dispatchFunc = batch.Dispatch

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the update tool across all enabled projects",
	Long: `Run 'nix flake update' in every enabled project directory concurrently.
One project's failure never stops the others; the batch always runs to
completion and reports every project.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().IntVarP(&updateJobsFlag, "jobs", "j", 0, "Maximum concurrent updates (default: number of CPUs)")
	updateCmd.Flags().IntVarP(&updateTimeoutFlag, "timeout", "t", int(batch.DefaultTimeout.Seconds()), "Per-project timeout in seconds (0 disables)")
	updateCmd.Flags().StringArrayVar(&updateOnlyFlag, "only", nil, "Restrict the batch to the given tracked paths or labels (repeatable)")
}

// runUpdate executes the update command over the registry snapshot.
//
// It performs the following operations:
//   - Takes a snapshot of enabled projects, optionally restricted by --only
//   - Dispatches one update job per project with bounded concurrency
//   - Prints one table row per project in registry order, then failed job
//     output, deferred warnings, and the summary line
//   - Maps the batch outcome to the process exit code
//
// An interrupt signal cancels the batch: running jobs are terminated and
// reported as failed, undispatched jobs as skipped.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Config error, or the outcome error carrying the exit code
func runUpdate(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(openStore())
	if err != nil {
		return err
	}

	collector := &warnings.Collector{}
	restoreWarnings := warnings.SetWarningWriter(collector)
	defer restoreWarnings()

	snapshot, err := dispatchSnapshot(reg)
	if err != nil {
		return err
	}

	if len(snapshot) == 0 {
		printWarnings(collector)
		fmt.Println("No enabled projects to update")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := dispatchFunc(ctx, snapshot, batch.Options{
		Jobs:    updateJobsFlag,
		Timeout: time.Duration(updateTimeoutFlag) * time.Second,
	})

	printReport(report)
	printWarnings(collector)
	fmt.Println(report.Summary())

	switch report.Outcome() {
	case batch.OutcomeSuccess, batch.OutcomeEmpty:
		return nil
	case batch.OutcomePartialFailure:
		succeeded, failed, skipped := report.Counts()
		return errors.NewExitError(errors.ExitPartialFailure,
			errors.NewPartialSuccessError(succeeded, failed, skipped))
	default:
		return errors.NewExitErrorf(errors.ExitFailure, "no project updated successfully")
	}
}

// dispatchSnapshot resolves the set of projects this batch will run over.
//
// Disabled projects never enter the snapshot. Each --only argument must
// match a tracked project; matching a disabled project produces a warning
// and excludes it.
//
// Parameters:
//   - reg: Loaded registry
//
// Returns:
//   - []registry.Project: Snapshot in registry order
//   - error: Config error when an --only argument matches nothing
func dispatchSnapshot(reg *registry.Registry) ([]registry.Project, error) {
	if len(updateOnlyFlag) == 0 {
		return reg.EnabledProjects(), nil
	}

	selected := make(map[string]bool)
	for _, ref := range updateOnlyFlag {
		project, ok := reg.Find(ref)
		if !ok {
			return nil, errors.NewExitErrorf(errors.ExitConfigError,
				"--only: no tracked project matches %q", ref)
		}
		if !project.Enabled {
			warnings.Warnf("Warning: %s is disabled, skipping\n", project.DisplayName())
			continue
		}
		selected[project.Path] = true
	}

	var snapshot []registry.Project
	for _, p := range reg.EnabledProjects() {
		if selected[p.Path] {
			snapshot = append(snapshot, p)
		}
	}
	return snapshot, nil
}

// printReport renders the per-project result table and failed job output.
func printReport(report *batch.Report) {
	table := output.NewTable().
		AddColumn("STATUS").
		AddColumn("DURATION").
		AddColumn("CHANGES").
		AddColumn("PROJECT")
	for i := range report.Jobs {
		job := &report.Jobs[i]
		table.UpdateWidths(job.StatusCell(), jobDuration(job), job.ChangeSummary(), job.Project.DisplayName())
	}

	table.Print()
	for i := range report.Jobs {
		job := &report.Jobs[i]
		fmt.Println(table.FormatRow(job.StatusCell(), jobDuration(job), job.ChangeSummary(), job.Project.DisplayName()))
	}

	for i := range report.Jobs {
		job := &report.Jobs[i]
		if job.Status != batch.StatusFailed || strings.TrimSpace(job.Stderr) == "" {
			continue
		}
		fmt.Printf("\n--- %s\n", job.Project.DisplayName())
		fmt.Println(strings.TrimRight(job.Stderr, "\n"))
	}
}

// printWarnings flushes warnings deferred during the batch to stderr.
func printWarnings(collector *warnings.Collector) {
	for _, msg := range collector.Messages() {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// jobDuration renders a job's run time for its table cell.
func jobDuration(job *batch.Job) string {
	if job.Status == batch.StatusSkipped {
		return "-"
	}
	return job.Duration.Round(10 * time.Millisecond).String()
}
