package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flakeplow/flakeplow/pkg/errors"
	"github.com/flakeplow/flakeplow/pkg/output"
	"github.com/flakeplow/flakeplow/pkg/registry"
)

var (
	listEnabledFlag  bool
	listDisabledFlag bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tracked projects",
	Long:    `List the tracked projects in registry order with their state and label.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listEnabledFlag, "enabled", false, "Show only enabled projects")
	listCmd.Flags().BoolVar(&listDisabledFlag, "disabled", false, "Show only disabled projects")
}

// runList executes the list command to display the registry.
//
// Rows appear in insertion order. The LABEL column only appears when at
// least one listed project carries a label.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Flag conflict or registry load failure
func runList(cmd *cobra.Command, args []string) error {
	if listEnabledFlag && listDisabledFlag {
		return errors.NewExitErrorf(errors.ExitConfigError,
			"--enabled and --disabled are mutually exclusive")
	}

	reg, err := loadRegistry(openStore())
	if err != nil {
		return err
	}

	var projects []registry.Project
	for _, p := range reg.Projects() {
		if listEnabledFlag && !p.Enabled {
			continue
		}
		if listDisabledFlag && p.Enabled {
			continue
		}
		projects = append(projects, p)
	}

	if len(projects) == 0 {
		fmt.Println("No tracked projects")
		return nil
	}

	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = p.Label
	}
	showLabels := output.ShouldShowLabelColumn(labels)

	table := output.NewTable().
		AddColumn("STATE").
		AddConditionalColumn("LABEL", showLabels).
		AddColumn("ADDED").
		AddColumn("PATH")
	for _, p := range projects {
		table.UpdateWidths(projectState(p), p.Label, p.AddedAt.Format("2006-01-02"), p.Path)
	}

	table.Print()
	for _, p := range projects {
		fmt.Println(table.FormatRow(projectState(p), p.Label, p.AddedAt.Format("2006-01-02"), p.Path))
	}
	return nil
}

// projectState renders a project's enabled flag for table cells.
func projectState(p registry.Project) string {
	if p.Enabled {
		return "enabled"
	}
	return "disabled"
}
