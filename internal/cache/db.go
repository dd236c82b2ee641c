// Package cache persists the last successfully fetched comment snapshot so
// startup can paint something before the live fetch returns. Collapse
// state is deliberately not stored here.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite snapshot database.
type DB struct {
	db *sql.DB
}

// Open creates or opens the snapshot database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			app TEXT,
			author TEXT,
			channel_id TEXT,
			comment_type TEXT,
			content TEXT,
			created_at TEXT,
			parent_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id)`,

		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
