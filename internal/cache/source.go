package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/loader"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// LoadFunc reads a spreadsheet from disk.
type LoadFunc func(path string, opt loader.Options) (*table.Table, error)

// Source serves the table of one spreadsheet and reloads it only when the file
// changes. Safe for concurrent use.
type Source struct {
	path  string
	opt   loader.Options
	load  LoadFunc
	store *Store
	log   *zap.Logger

	mu      sync.Mutex
	current *table.Table
	key     Key
}

// NewSource creates a source for path. store may be nil to disable snapshots.
func NewSource(path string, opt loader.Options, store *Store, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{path: path, opt: opt, load: loader.LoadFile, store: store, log: log}
}

// WithLoader replaces the load function; used by tests.
func (s *Source) WithLoader(fn LoadFunc) *Source {
	s.load = fn
	return s
}

// Path returns the spreadsheet path.
func (s *Source) Path() string { return s.path }

func (s *Source) variant() string {
	return fmt.Sprintf("sheet=%s;index=%d;delim=%q", s.opt.SheetName, s.opt.SheetIndex, s.opt.Delimiter)
}

// Table returns the current table, reloading when the file's size or modification
// time changed since the last call.
func (s *Source) Table(ctx context.Context) (*table.Table, error) {
	key, err := KeyFor(s.path, s.variant())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.key == key {
		return s.current, nil
	}
	if s.store != nil {
		t, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			s.log.Debug("table served from snapshot", zap.String("path", key.Path), zap.String("table_id", t.ID))
			s.current, s.key = t, key
			return t, nil
		case errors.Is(err, ErrMiss):
		default:
			s.log.Warn("snapshot read failed", zap.String("path", key.Path), zap.Error(err))
		}
	}
	t, err := s.load(s.path, s.opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	s.log.Info("table loaded",
		zap.String("path", key.Path),
		zap.String("table_id", t.ID),
		zap.Int("rows", len(t.Rows)),
		zap.Int("columns", len(t.Columns)),
	)
	if s.store != nil {
		if err := s.store.Put(ctx, key, t); err != nil {
			s.log.Warn("snapshot write failed", zap.String("path", key.Path), zap.Error(err))
		}
	}
	s.current, s.key = t, key
	return t, nil
}
