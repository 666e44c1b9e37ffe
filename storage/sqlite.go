// Package storage persists Flash local shared objects. The SQLite store
// uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite is an on-disk shared-object store backed by a single database
// file, one file per movie.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a shared-object database at the given
// path. It creates the parent directories if needed and runs migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLite{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS shared_objects (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Get(name string) ([]byte, bool) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM shared_objects WHERE name = ?",
		name,
	).Scan(&data)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *SQLite) Put(name string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO shared_objects (name, data, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot store %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Remove(name string) error {
	_, err := s.db.Exec("DELETE FROM shared_objects WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot remove %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM shared_objects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list objects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return names, nil
}
