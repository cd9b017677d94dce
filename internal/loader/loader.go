package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// Options controls how a spreadsheet is read.
type Options struct {
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based sheet used when SheetName is empty.
	SheetIndex int
	// Delimiter for CSV. If 0, ',' is used, or '\t' for .tsv files.
	Delimiter rune
}

// Loader reads one spreadsheet format into a Table.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*table.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// LoadFile selects a loader by filename and reads the table.
func LoadFile(path string, opt Options) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func newID() string { return uuid.NewString() }

func init() {
	Register(xlsxLoader{})
	Register(csvLoader{})
}
