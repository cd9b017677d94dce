package analysis

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

func TestDaysAvgColumns(t *testing.T) {
	cols := []string{"Zeitschrift", "Review days avg.", "Submission to first decision DAYS AVG", "Impact Factor"}
	assert.Equal(t, []string{"Review days avg.", "Submission to first decision DAYS AVG"}, DaysAvgColumns(cols))
	assert.Empty(t, DaysAvgColumns([]string{"days", "avg"}))
}

func TestCleanRowPlaceholderForEmptyDaysAvg(t *testing.T) {
	cols := []string{"Zeitschrift", "Review days avg"}
	got := CleanRow(cols, table.Row{table.TextCell("J1"), table.TextCell("")}, CleanOptions{})
	require.Equal(t, cols, got.Columns)
	require.Len(t, got.Rows, 1)
	v, ok := got.Get(0, "Review days avg")
	require.True(t, ok)
	assert.Equal(t, Placeholder, v.Kind)
	assert.Equal(t, "no values available", v.String())

	got = CleanRow(cols, table.Row{table.TextCell("J1"), table.MissingCell()}, CleanOptions{MissingLabel: "keine Werte"})
	v, _ = got.Get(0, "Review days avg")
	assert.Equal(t, "keine Werte", v.String())
}

func TestCleanRowIntegralFloats(t *testing.T) {
	cols := []string{"A", "B", "C"}
	got := CleanRow(cols, table.Row{table.NumberCell(152.0), table.NumberCell(152.5), table.TextCell("152.0")}, CleanOptions{})
	a, _ := got.Get(0, "A")
	b, _ := got.Get(0, "B")
	c, _ := got.Get(0, "C")
	assert.Equal(t, DisplayValue{Kind: Int, Int: 152}, a)
	assert.Equal(t, DisplayValue{Kind: Float, Float: 152.5}, b)
	assert.Equal(t, "152", a.String())
	assert.Equal(t, "152.5", b.String())
	assert.Equal(t, DisplayValue{Kind: Text, Text: "152.0"}, c)
}

func TestCleanRowDropsEmptyColumnsKeepsOrder(t *testing.T) {
	cols := []string{"Zeitschrift", "Empty", "Impact Factor", "Blank", "Review days avg"}
	row := table.Row{table.TextCell("J1"), table.MissingCell(), table.NumberCell(3), table.TextCell("  "), table.MissingCell()}
	got := CleanRow(cols, row, CleanOptions{})
	assert.Equal(t, []string{"Zeitschrift", "Impact Factor", "Review days avg"}, got.Columns)
	assert.Len(t, got.Rows[0], 3)
}

func TestCleanRowsKeepsColumnFilledInAnyRow(t *testing.T) {
	cols := []string{"Zeitschrift", "Notes"}
	rows := []table.Row{
		{table.TextCell("J1"), table.MissingCell()},
		{table.TextCell("J1"), table.TextCell("second edition")},
	}
	got := CleanRows(cols, rows, CleanOptions{})
	assert.Equal(t, cols, got.Columns)
	first, _ := got.Get(0, "Notes")
	assert.True(t, first.IsEmpty())
}

func TestCleanRowsDoesNotMutateInput(t *testing.T) {
	cols := []string{"Zeitschrift", "Review days avg"}
	row := table.Row{table.TextCell("J1"), table.MissingCell()}
	_ = CleanRow(cols, row, CleanOptions{})
	assert.Equal(t, table.Missing, row[1].Kind)
}

func TestCleanRowsExplicitPlaceholderColumns(t *testing.T) {
	cols := []string{"Zeitschrift", "Review days avg", "Decision time"}
	row := table.Row{table.TextCell("J1"), table.MissingCell(), table.MissingCell()}
	got := CleanRow(cols, row, CleanOptions{PlaceholderColumns: []string{"Decision time"}})
	assert.Equal(t, []string{"Zeitschrift", "Decision time"}, got.Columns)
}

func TestDisplayTableJSON(t *testing.T) {
	cols := []string{"Zeitschrift", "IF", "Share", "Review days avg"}
	got := CleanRow(cols, table.Row{table.TextCell("J1"), table.NumberCell(4), table.NumberCell(0.25), table.MissingCell()}, CleanOptions{})
	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["Zeitschrift","IF","Share","Review days avg"],"rows":[["J1",4,0.25,"no values available"]]}`, string(b))
}

func TestDisplayTableMarkdown(t *testing.T) {
	cols := []string{"Zeitschrift", "Impact Factor"}
	got := CleanRow(cols, table.Row{table.TextCell("J|1"), table.NumberCell(3.0)}, CleanOptions{})
	md := got.Markdown("Data for: J|1")
	assert.Contains(t, md, "## Data for: J|1")
	assert.Contains(t, md, "| Zeitschrift | Impact Factor |")
	assert.Contains(t, md, "| J/1 | 3 |")
}

func TestDisplayTableMarkdownTruncatesByRune(t *testing.T) {
	long := strings.Repeat("a", 76) + "ü" + "bbb" + strings.Repeat("ö", 10)
	got := CleanRow([]string{"Zeitschrift", "Notes"}, table.Row{table.TextCell("J1"), table.TextCell(long)}, CleanOptions{})
	md := got.Markdown("")
	assert.True(t, utf8.ValidString(md))
	assert.Contains(t, md, "| J1 | "+strings.Repeat("a", 76)+"übb…"+" |")
}
