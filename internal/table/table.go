package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a cell value.
type Kind int

const (
	Missing Kind = iota
	Number
	Text
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "missing"
	}
}

// Cell is one spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind Kind    `json:"kind"`
	Num  float64 `json:"num,omitempty"`
	Text string  `json:"text,omitempty"`
}

// MissingCell returns an absent value.
func MissingCell() Cell { return Cell{Kind: Missing} }

// NumberCell returns a numeric value.
func NumberCell(v float64) Cell { return Cell{Kind: Number, Num: v} }

// TextCell returns a string value. Blank strings stay Text; use IsEmpty to test them.
func TextCell(s string) Cell { return Cell{Kind: Text, Text: s} }

// IsEmpty reports whether the cell carries no data: Missing, or Text that is blank.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case Missing:
		return true
	case Text:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell for labels and selection matching.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return FormatNumber(c.Num)
	case Text:
		return c.Text
	default:
		return ""
	}
}

// FormatNumber renders v in its shortest form; integral values carry no decimals.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row holds cells aligned to Table.Columns.
type Row []Cell

// Table is an immutable, loaded spreadsheet: a header plus equally wide rows.
type Table struct {
	// ID identifies this load; a reload produces a new ID.
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	index map[string]int
}

var (
	// ErrNoEntityColumn means none of the candidate key columns exist.
	ErrNoEntityColumn = errors.New("no entity column found")
	// ErrUnknownEntity means no row matches the requested selection.
	ErrUnknownEntity = errors.New("unknown entity")
)

// DefaultEntityColumns lists the key columns tried when none are configured.
var DefaultEntityColumns = []string{"Zeitschrift", "URL"}

// New builds a table from a raw header and rows. Blank or duplicated header names are
// made unique, short rows are padded with Missing and long rows widen the header.
func New(id, source string, header []string, rows []Row) *Table {
	width := len(header)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	cols := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				cand := fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[cand]; !taken {
					seen[base] = n
					name = cand
					break
				}
			}
		}
		seen[name] = 0
		cols[i] = name
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		cp := make(Row, width)
		copy(cp, r)
		for j := len(r); j < width; j++ {
			cp[j] = MissingCell()
		}
		out[i] = cp
	}
	t := &Table{ID: id, Source: source, Columns: cols, Rows: out}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// ColumnIndex returns the position of a column; names are case-sensitive.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Cell returns the value of column name in row r, or Missing when absent.
func (t *Table) Cell(r Row, name string) Cell {
	i, ok := t.ColumnIndex(name)
	if !ok || i >= len(r) {
		return MissingCell()
	}
	return r[i]
}

// RowMap returns row i keyed by column name.
func (t *Table) RowMap(i int) map[string]Cell {
	m := make(map[string]Cell, len(t.Columns))
	if i < 0 || i >= len(t.Rows) {
		return m
	}
	for j, c := range t.Columns {
		m[c] = t.Rows[i][j]
	}
	return m
}

// EntityColumn returns the first candidate present in the header. Without candidates
// DefaultEntityColumns is used.
func (t *Table) EntityColumn(candidates ...string) (string, error) {
	if len(candidates) == 0 {
		candidates = DefaultEntityColumns
	}
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoEntityColumn, strings.Join(candidates, ", "))
}

// Entities lists the distinct non-empty values of column in first-appearance order.
func (t *Table) Entities(column string) []string {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, r := range t.Rows {
		c := r[i]
		if c.IsEmpty() {
			continue
		}
		v := c.String()
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// RowsWhere returns copies of the rows whose column value renders as value.
func (t *Table) RowsWhere(column, value string) ([]Row, error) {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEntityColumn, column)
	}
	var out []Row
	for _, r := range t.Rows {
		if r[i].IsEmpty() || r[i].String() != value {
			continue
		}
		cp := make(Row, len(r))
		copy(cp, r)
		out = append(out, cp)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, value)
	}
	return out, nil
}
