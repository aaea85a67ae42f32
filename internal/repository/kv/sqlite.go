package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Registers the pure Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// SQLiteBackend stores lists in an SQLite database, one row per element.
// A list_keys row marks that a key exists, so an empty list is distinct from
// a key that was never written.
type SQLiteBackend struct {
	// db is the open database handle.
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS list_keys (
	key        TEXT PRIMARY KEY,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS list_items (
	key      TEXT    NOT NULL REFERENCES list_keys(key) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	value    TEXT    NOT NULL,
	PRIMARY KEY (key, position)
);
`

// NewSQLiteBackend opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("configure database: %w", err)
	}

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// GetList returns the values stored under key ordered by position.
func (b *SQLiteBackend) GetList(ctx context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, errEmptyKey
	}

	var exists int

	err := b.db.QueryRowContext(ctx, "SELECT 1 FROM list_keys WHERE key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("query list key: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT value
		FROM list_items
		WHERE key = ?
		ORDER BY position ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("query list items: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	values := make([]string, 0)

	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}

		values = append(values, value)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list items: %w", err)
	}

	return values, nil
}

// SetList replaces the list under key inside a single transaction.
func (b *SQLiteBackend) SetList(ctx context.Context, key string, values []string) error {
	if key == "" {
		return errEmptyKey
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err = replaceList(ctx, tx, key, values); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Close()
}

func replaceList(ctx context.Context, tx *sql.Tx, key string, values []string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO list_keys (key, updated_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET updated_at = excluded.updated_at
	`, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert list key: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM list_items WHERE key = ?", key); err != nil {
		return fmt.Errorf("clear list items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO list_items (key, position, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare list insert: %w", err)
	}

	defer func() {
		_ = stmt.Close()
	}()

	for position, value := range values {
		if _, err = stmt.ExecContext(ctx, key, position, value); err != nil {
			return fmt.Errorf("insert list item %d: %w", position, err)
		}
	}

	return nil
}
