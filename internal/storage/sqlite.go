package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yctseng/itemlist/internal/model"
)

// SQLite stores the blob as the single row at Key in a key/value table.
// The overwrite is transactional, so a failed flush keeps the old blob.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite-backed blob store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load implements Blob.
func (s *SQLite) Load() ([]model.Item, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, Key).Scan(&value)
	if err == sql.ErrNoRows {
		return []model.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, fmt.Errorf("%w: parsing blob at %q: %v", model.ErrCorruptData, Key, err)
	}
	return items, nil
}

// Save implements Blob.
func (s *SQLite) Save(items []model.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encoding collection: %v", model.ErrPersistence, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO blobs (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		Key, string(data),
	)
	if err != nil {
		return fmt.Errorf("%w: writing blob: %v", model.ErrPersistence, err)
	}
	return nil
}
