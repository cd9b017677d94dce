package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}

// Load reads the selected sheet. The first row is the header. Numeric cells become
// Number, strings Text and blanks Missing.
func (xlsxLoader) Load(path string, opt Options) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var header []string
	var out []table.Row
	rowNum := 0
	for rows.Next() {
		rowNum++
		raw, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		if header == nil {
			if blank(raw) {
				continue
			}
			header = raw
			continue
		}
		if blank(raw) {
			continue
		}
		r := make(table.Row, len(raw))
		for j, v := range raw {
			r[j] = xlsxCell(f, sheet, j+1, rowNum, v)
		}
		out = append(out, r)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return table.New(newID(), filepath.Base(path), header, out), nil
}

// resolveSheet picks a sheet by name, else by 1-based index, else the first.
func resolveSheet(sheets []string, name string, index int, file string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", file)
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			name, file, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range in workbook '%s' (%d sheets)", index, file, len(sheets))
	}
	return sheets[index-1], nil
}

func xlsxCell(f *excelize.File, sheet string, col, row int, raw string) table.Cell {
	if strings.TrimSpace(raw) == "" {
		return table.MissingCell()
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.TextCell(raw)
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return table.TextCell(raw)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return table.NumberCell(v)
		}
		return table.TextCell(raw)
	default:
		// strings (shared strings arrive resolved), booleans, errors and cached
		// formula results
		return table.TextCell(raw)
	}
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
