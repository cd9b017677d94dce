package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// Key identifies one version of a spreadsheet on disk.
type Key struct {
	Path string
	Size int64
	// ModTime is the modification time in Unix nanoseconds.
	ModTime int64
	// Variant distinguishes load options (sheet, delimiter) for the same file.
	Variant string
}

// KeyFor stats path and builds its cache key.
func KeyFor(path, variant string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return Key{}, fmt.Errorf("stat spreadsheet: %w", err)
	}
	return Key{Path: abs, Size: fi.Size(), ModTime: fi.ModTime().UnixNano(), Variant: variant}, nil
}

// ErrMiss is returned by Get when no snapshot matches the key.
var ErrMiss = errors.New("cache miss")

// Store keeps parsed table snapshots in a sqlite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	path      TEXT    NOT NULL,
	variant   TEXT    NOT NULL,
	size      INTEGER NOT NULL,
	mod_time  INTEGER NOT NULL,
	table_id  TEXT    NOT NULL,
	payload   BLOB    NOT NULL,
	stored_at INTEGER NOT NULL,
	PRIMARY KEY (path, variant)
)`

// Open opens (creating if needed) the snapshot database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "snapshots.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

type snapshot struct {
	Columns []string    `json:"columns"`
	Rows    []table.Row `json:"rows"`
	Source  string      `json:"source"`
}

// Get returns the snapshot stored for key, or ErrMiss when the file changed or was
// never cached.
func (s *Store) Get(ctx context.Context, key Key) (*table.Table, error) {
	var (
		id      string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT table_id, payload FROM snapshots WHERE path = ? AND variant = ? AND size = ? AND mod_time = ?`,
		key.Path, key.Variant, key.Size, key.ModTime,
	).Scan(&id, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return table.New(id, snap.Source, snap.Columns, snap.Rows), nil
}

// Put stores t as the snapshot for key, replacing any older version of the file.
func (s *Store) Put(ctx context.Context, key Key, t *table.Table) error {
	payload, err := json.Marshal(snapshot{Columns: t.Columns, Rows: t.Rows, Source: t.Source})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (path, variant, size, mod_time, table_id, payload, stored_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.Path, key.Variant, key.Size, key.ModTime, t.ID, payload, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Purge deletes all snapshots and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, fmt.Errorf("purge snapshots: %w", err)
	}
	return res.RowsAffected()
}
