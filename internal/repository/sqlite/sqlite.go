// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so no
// CGo and no C toolchain needed. It registers itself with database/sql as
// "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One pooled connection: SQLite serializes writers anyway, and a
	// ":memory:" database only exists per-connection, so tests would see
	// different databases on different pool members otherwise.
	conn.SetMaxOpenConns(1)

	// sql.Open is lazy; Ping forces a real connection so a bad path fails
	// here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets concurrent request handlers read while one of them writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the two tables. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; the schema never changes after bootstrap, so there is no
// versioned migration machinery here.
//
// Note the UNIQUE on posts.author_id: at most one post per author. A quirk
// of the naive schema, preserved on purpose (see model.Post).
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			bio        TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT 2020
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL UNIQUE,
			body       TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT 2020,
			author_id  INTEGER NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint
// failure. The driver surfaces it as a formatted error rather than a
// sentinel, so we match the constant message text — the same spirit as
// checking sql.ErrNoRows by identity.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
