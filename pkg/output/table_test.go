package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flakeplow/flakeplow/pkg/testutil"
)

func TestTableWidthsGrowWithRows(t *testing.T) {
	table := NewTable().
		AddColumn("STATUS").
		AddColumn("PROJECT")
	table.UpdateWidths("succeeded", "api")
	table.UpdateWidths("failed", "a-much-longer-project-name")

	header := table.HeaderRow()
	row := table.FormatRow("failed", "a-much-longer-project-name")
	assert.Equal(t, len(header), len(row), "rows and header share column widths")
	assert.Contains(t, header, "STATUS")
}

func TestTableHiddenColumn(t *testing.T) {
	table := NewTable().
		AddColumn("STATE").
		AddConditionalColumn("LABEL", false).
		AddColumn("PATH")

	assert.Equal(t, 3, table.ColumnCount())
	assert.Equal(t, 2, table.VisibleColumnCount())
	assert.NotContains(t, table.HeaderRow(), "LABEL")

	// The hidden column's value is still passed but not rendered
	row := table.FormatRow("enabled", "api", "/proj/a")
	assert.NotContains(t, row, "api")
	assert.Contains(t, row, "/proj/a")
}

func TestTableSeparatorRow(t *testing.T) {
	table := NewTable().AddColumn("AB").AddColumn("CDE")
	assert.Equal(t, "--  ---", table.SeparatorRow())
}

func TestTableCustomSeparator(t *testing.T) {
	table := NewTable().WithSeparator(" | ").AddColumn("A").AddColumn("B")
	assert.Equal(t, "A | B", table.HeaderRow())
}

func TestTableUnicodeWidths(t *testing.T) {
	table := NewTable().AddColumn("NAME")
	table.UpdateWidths("日本語")

	// 3 CJK characters occupy 6 cells
	assert.Equal(t, "ab    ", table.FormatRow("ab"))
}

func TestTablePrintAndFprint(t *testing.T) {
	table := NewTable().AddColumn("A")

	out := testutil.CaptureStdout(t, func() { table.Print() })
	assert.Contains(t, out, "A\n-\n")

	var buf bytes.Buffer
	table.Fprint(&buf)
	assert.Equal(t, out, buf.String())
}

func TestShouldShowLabelColumn(t *testing.T) {
	assert.False(t, ShouldShowLabelColumn(nil))
	assert.False(t, ShouldShowLabelColumn([]string{"", "  "}))
	assert.True(t, ShouldShowLabelColumn([]string{"", "api"}))
}
