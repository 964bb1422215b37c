package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flakeplow/flakeplow/pkg/batch"
	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/lockdiff"
	"github.com/flakeplow/flakeplow/pkg/registry"
	"github.com/flakeplow/flakeplow/pkg/testutil"
)

// withDispatch swaps the batch dispatcher for the duration of a test.
func withDispatch(t *testing.T, fn func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report) {
	t.Helper()
	saved := dispatchFunc
	dispatchFunc = fn
	t.Cleanup(func() { dispatchFunc = saved })
}

// allSucceed builds a report where every project updated cleanly.
func allSucceed(projects []registry.Project) *batch.Report {
	report := &batch.Report{}
	for i, p := range projects {
		report.Jobs = append(report.Jobs, batch.Job{
			Index:    i,
			Project:  p,
			Status:   batch.StatusSucceeded,
			Duration: 120 * time.Millisecond,
		})
	}
	return report
}

func trackProjects(t *testing.T, stateDir string, labels ...string) {
	t.Helper()
	parent := t.TempDir()
	for _, label := range labels {
		dir := makeFlakeDir(t, parent, label)
		_, err := runCommand(t, "add", dir, "--label", label, "--state-dir", stateDir)
		require.NoError(t, err)
	}
}

func TestUpdateAllSucceed(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha", "beta")

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		return allSucceed(projects)
	})

	out, err := runCommand(t, "update", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "PROJECT")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "2 succeeded, 0 failed, 0 skipped: success")
}

func TestUpdateShowsChangeDirections(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha")

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		report := allSucceed(projects)
		report.Jobs[0].Diff = lockdiff.Diff{Changed: []lockdiff.Change{
			{Key: "nixpkgs", Before: "1.0.0", After: "1.1.0", Direction: lockdiff.DirectionUpgrade},
			{Key: "utils", Before: "2.0.0", After: "1.9.0", Direction: lockdiff.DirectionDowngrade},
		}}
		return report
	})

	out, err := runCommand(t, "update", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Contains(t, out, "+0 ~2 -0 (1 up, 1 down)")
}

func TestUpdatePartialFailureExitCode(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha", "beta")

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		report := allSucceed(projects)
		report.Jobs[1].Status = batch.StatusFailed
		report.Jobs[1].Reason = "exit code 1"
		report.Jobs[1].Stderr = "error: flake input unavailable"
		return report
	})

	out, err := runCommand(t, "update", "--state-dir", stateDir)
	require.Error(t, err)
	assert.Equal(t, errors.ExitPartialFailure, errors.GetExitCode(err))

	_, ok := errors.IsPartialSuccess(err)
	assert.True(t, ok)

	assert.Contains(t, out, "failed (exit code 1)")
	assert.Contains(t, out, "error: flake input unavailable", "failed job output is shown under the table")
	assert.Contains(t, out, "1 succeeded, 1 failed, 0 skipped: partial failure")
}

func TestUpdateTotalFailureExitCode(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha")

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		report := allSucceed(projects)
		for i := range report.Jobs {
			report.Jobs[i].Status = batch.StatusFailed
			report.Jobs[i].Reason = "launch error: no nix binary"
		}
		return report
	})

	out, err := runCommand(t, "update", "--state-dir", stateDir)
	require.Error(t, err)
	assert.Equal(t, errors.ExitFailure, errors.GetExitCode(err))
	assert.Contains(t, out, "total failure")
}

func TestUpdateEmptyRegistryExitsCleanly(t *testing.T) {
	out, err := runCommand(t, "update", "--state-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No enabled projects to update")
}

func TestUpdateExcludesDisabledProjects(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha", "beta")
	_, err := runCommand(t, "disable", "beta", "--state-dir", stateDir)
	require.NoError(t, err)

	var dispatched []registry.Project
	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		dispatched = projects
		return allSucceed(projects)
	})

	_, err = runCommand(t, "update", "--state-dir", stateDir)
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.Equal(t, "alpha", dispatched[0].Label)
}

func TestUpdateOnlyRestrictsSnapshot(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha", "beta", "gamma")

	var dispatched []registry.Project
	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		dispatched = projects
		return allSucceed(projects)
	})

	_, err := runCommand(t, "update", "--only", "gamma", "--only", "alpha", "--state-dir", stateDir)
	require.NoError(t, err)

	// Registry order, not flag order
	require.Len(t, dispatched, 2)
	assert.Equal(t, "alpha", dispatched[0].Label)
	assert.Equal(t, "gamma", dispatched[1].Label)
}

func TestUpdateOnlyUnknownRefIsConfigError(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha")

	_, err := runCommand(t, "update", "--only", "ghost", "--state-dir", stateDir)
	require.Error(t, err)
	assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
}

func TestUpdateOnlyDisabledProjectWarnsAndRunsNothing(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha")
	_, err := runCommand(t, "disable", "alpha", "--state-dir", stateDir)
	require.NoError(t, err)

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		t.Fatal("dispatch must not run when the snapshot is empty")
		return nil
	})

	resetFlags()
	rootCmd.SetArgs([]string{"update", "--only", "alpha", "--state-dir", stateDir})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	var execErr error
	stdout, stderr := testutil.CaptureOutput(t, func() {
		execErr = ExecuteTest()
	})
	require.NoError(t, execErr)
	assert.Contains(t, stdout, "No enabled projects to update")
	assert.Contains(t, stderr, "alpha is disabled")
}

func TestUpdatePassesJobAndTimeoutFlags(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha")

	var got batch.Options
	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		got = opts
		return allSucceed(projects)
	})

	_, err := runCommand(t, "update", "--jobs", "2", "--timeout", "30", "--state-dir", stateDir)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Jobs)
	assert.Equal(t, 30*time.Second, got.Timeout)
}

func TestUpdateSkippedJobsShownWithoutDuration(t *testing.T) {
	stateDir := t.TempDir()
	trackProjects(t, stateDir, "alpha", "beta")

	withDispatch(t, func(ctx context.Context, projects []registry.Project, opts batch.Options) *batch.Report {
		report := allSucceed(projects)
		report.Jobs[1].Status = batch.StatusSkipped
		report.Jobs[1].Reason = "cancelled"
		report.Jobs[1].Duration = 0
		return report
	})

	out, err := runCommand(t, "update", "--state-dir", stateDir)
	require.Error(t, err)
	assert.Contains(t, out, "skipped (cancelled)")
	assert.Contains(t, out, "1 succeeded, 0 failed, 1 skipped: partial failure")
}
