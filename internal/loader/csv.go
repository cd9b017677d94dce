package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv")
}

// Load reads a delimited file. Cells that parse as plain floats become Number, blanks
// Missing and everything else Text; locale formats stay Text for the normalizer.
func (csvLoader) Load(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table.New(newID(), filepath.Base(path), nil, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var rows []table.Row
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if blank(rec) {
			continue
		}
		row := make(table.Row, len(rec))
		for j, v := range rec {
			row[j] = csvCell(v)
		}
		rows = append(rows, row)
	}
	return table.New(newID(), filepath.Base(path), header, rows), nil
}

func csvCell(v string) table.Cell {
	s := strings.TrimSpace(v)
	if s == "" {
		return table.MissingCell()
	}
	if strings.ContainsAny(s, "xXpP_iInN") {
		return table.TextCell(v)
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return table.NumberCell(x)
	}
	return table.TextCell(v)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
