package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps recent searches in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" opens a private
// in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized and ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recent_searches (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		query TEXT NOT NULL,
		searched_at TIMESTAMP NOT NULL,
		UNIQUE (session, query)
	);

	CREATE INDEX IF NOT EXISTS idx_recent_searches_session ON recent_searches(session, seq);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the session's recent searches.
func (s *SQLiteStore) Get(ctx context.Context, session string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM recent_searches WHERE session = ? ORDER BY seq DESC LIMIT ?`,
		session, MaxRecentSearches,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Add records text as the session's most recent search.
func (s *SQLiteStore) Add(ctx context.Context, session, text string) error {
	text = normalizeSearch(text)
	if text == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_searches WHERE session = ? AND query = ?`, session, text,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_searches (session, query, searched_at) VALUES (?, ?, ?)`,
		session, text, time.Now(),
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_searches WHERE session = ? AND seq NOT IN (
			SELECT seq FROM recent_searches WHERE session = ? ORDER BY seq DESC LIMIT ?
		)`,
		session, session, MaxRecentSearches,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Clear forgets the session's searches.
func (s *SQLiteStore) Clear(ctx context.Context, session string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recent_searches WHERE session = ?`, session)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
