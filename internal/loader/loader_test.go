package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Journals"))
	cells := map[string]any{
		"A1": "Zeitschrift", "B1": "Impact Factor", "C1": "Review days avg", "D1": "Acceptance Rate",
		"A2": "Journal One", "B2": 3.5, "D2": "15,6%",
		"A3": "Journal Two", "B3": "n/a", "C3": 152, "D3": "-",
	}
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue("Journals", ref, v))
	}
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "URL"))
	require.NoError(t, f.SetCellValue("Other", "A2", "https://example.org"))

	p := filepath.Join(t.TempDir(), "journals.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadXLSXKinds(t *testing.T) {
	p := writeWorkbook(t)
	tb, err := LoadFile(p, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, tb.ID)
	assert.Equal(t, "journals.xlsx", tb.Source)
	assert.Equal(t, []string{"Zeitschrift", "Impact Factor", "Review days avg", "Acceptance Rate"}, tb.Columns)
	require.Len(t, tb.Rows, 2)

	assert.Equal(t, table.TextCell("Journal One"), tb.Rows[0][0])
	assert.Equal(t, table.NumberCell(3.5), tb.Rows[0][1])
	assert.Equal(t, table.Missing, tb.Rows[0][2].Kind)
	assert.Equal(t, table.TextCell("15,6%"), tb.Rows[0][3])

	assert.Equal(t, table.TextCell("n/a"), tb.Rows[1][1])
	assert.Equal(t, table.NumberCell(152), tb.Rows[1][2])
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	p := writeWorkbook(t)

	tb, err := LoadFile(p, Options{SheetName: "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"URL"}, tb.Columns)

	tb, err = LoadFile(p, Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"URL"}, tb.Columns)

	_, err = LoadFile(p, Options{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Journals, Other")

	_, err = LoadFile(p, Options{SheetIndex: 5})
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journals.csv")
	content := "\ufeffZeitschrift;Impact Factor;Review days avg\n" +
		"J1;3,5;\n" +
		";;\n" +
		"J2;4.25;NaN\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	tb, err := LoadFile(p, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeitschrift", "Impact Factor", "Review days avg"}, tb.Columns)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, table.TextCell("3,5"), tb.Rows[0][1])
	assert.Equal(t, table.Missing, tb.Rows[0][2].Kind)
	assert.Equal(t, table.NumberCell(4.25), tb.Rows[1][1])
	assert.Equal(t, table.TextCell("NaN"), tb.Rows[1][2])
}

func TestLoadTSVSniffsTab(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journals.tsv")
	require.NoError(t, os.WriteFile(p, []byte("URL\tCiteScore\nhttps://a\t7\n"), 0o644))
	tb, err := LoadFile(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"URL", "CiteScore"}, tb.Columns)
	assert.Equal(t, table.NumberCell(7), tb.Rows[0][1])
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.xlsx"), Options{})
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err = LoadFile(p, Options{})
	assert.True(t, errors.Is(err, ErrUnsupported))
}
