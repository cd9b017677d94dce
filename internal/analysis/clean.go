package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// DefaultMissingLabel fills empty average-days cells when no label is configured.
const DefaultMissingLabel = "no values available"

const daysAvgMarker = "days avg"

// DisplayKind tells how a cleaned value should be rendered.
type DisplayKind int

const (
	Empty DisplayKind = iota
	Int
	Float
	Text
	Placeholder
)

// DisplayValue is one presentation-ready cell.
type DisplayValue struct {
	Kind  DisplayKind
	Int   int64
	Float float64
	Text  string
}

func (v DisplayValue) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return table.FormatNumber(v.Float)
	case Text, Placeholder:
		return v.Text
	default:
		return ""
	}
}

// MarshalJSON emits ints and floats as numbers, text and placeholders as strings and
// empty values as null.
func (v DisplayValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Int:
		return json.Marshal(v.Int)
	case Float:
		return json.Marshal(v.Float)
	case Text, Placeholder:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// IsEmpty reports a value with nothing to show.
func (v DisplayValue) IsEmpty() bool {
	switch v.Kind {
	case Empty:
		return true
	case Text:
		return strings.TrimSpace(v.Text) == ""
	default:
		return false
	}
}

// DisplayRow is one cleaned row aligned to DisplayTable.Columns.
type DisplayRow []DisplayValue

// DisplayTable holds the cleaned rows of a selection with all-empty columns removed.
type DisplayTable struct {
	Columns []string     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// CleanOptions configures CleanRows.
type CleanOptions struct {
	// MissingLabel replaces empty values in placeholder columns.
	MissingLabel string
	// PlaceholderColumns overrides DaysAvgColumns when non-nil.
	PlaceholderColumns []string
}

// DaysAvgColumns returns the columns whose name contains "days avg", ignoring case.
func DaysAvgColumns(columns []string) []string {
	var out []string
	lower := cases.Lower(language.Und)
	for _, c := range columns {
		if strings.Contains(lower.String(c), daysAvgMarker) {
			out = append(out, c)
		}
	}
	return out
}

// CleanValue renders integral numbers as integers and leaves everything else as is.
func CleanValue(c table.Cell) DisplayValue {
	switch c.Kind {
	case table.Number:
		if isIntegral(c.Num) {
			return DisplayValue{Kind: Int, Int: int64(c.Num)}
		}
		return DisplayValue{Kind: Float, Float: c.Num}
	case table.Text:
		return DisplayValue{Kind: Text, Text: c.Text}
	default:
		return DisplayValue{Kind: Empty}
	}
}

func isIntegral(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	return f >= math.MinInt64 && f < math.MaxInt64
}

// CleanRow cleans a single row. See CleanRows.
func CleanRow(columns []string, row table.Row, opt CleanOptions) *DisplayTable {
	return CleanRows(columns, []table.Row{row}, opt)
}

// CleanRows turns the selected rows into a display table: empty placeholder-column
// values get the missing label, integral numbers lose their decimals and columns that
// are empty in every row are dropped. The input rows are not modified.
func CleanRows(columns []string, rows []table.Row, opt CleanOptions) *DisplayTable {
	label := opt.MissingLabel
	if label == "" {
		label = DefaultMissingLabel
	}
	placeholders := opt.PlaceholderColumns
	if placeholders == nil {
		placeholders = DaysAvgColumns(columns)
	}
	fill := make(map[string]bool, len(placeholders))
	for _, c := range placeholders {
		fill[c] = true
	}

	cleaned := make([]DisplayRow, len(rows))
	keep := make([]bool, len(columns))
	for i, r := range rows {
		dr := make(DisplayRow, len(columns))
		for j, col := range columns {
			c := table.MissingCell()
			if j < len(r) {
				c = r[j]
			}
			v := CleanValue(c)
			if fill[col] && c.IsEmpty() {
				v = DisplayValue{Kind: Placeholder, Text: label}
			}
			if !v.IsEmpty() {
				keep[j] = true
			}
			dr[j] = v
		}
		cleaned[i] = dr
	}

	out := &DisplayTable{}
	for j, col := range columns {
		if keep[j] {
			out.Columns = append(out.Columns, col)
		}
	}
	for _, dr := range cleaned {
		row := make(DisplayRow, 0, len(out.Columns))
		for j := range columns {
			if keep[j] {
				row = append(row, dr[j])
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Get returns the value of column in row i.
func (d *DisplayTable) Get(i int, column string) (DisplayValue, bool) {
	if i < 0 || i >= len(d.Rows) {
		return DisplayValue{}, false
	}
	for j, c := range d.Columns {
		if c == column {
			return d.Rows[i][j], true
		}
	}
	return DisplayValue{}, false
}
