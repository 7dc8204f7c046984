// This file implements the SQLite-backed mood history store.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/safespace-app/safespace/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists mood history in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN
// is a file path; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// Record appends an entry and trims the user's history to the retention
// cap, oldest first. Both statements run in one transaction so a
// concurrent List never observes more than the cap.
func (s *SQLiteStore) Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mood_history (user_id, label, intensity, confidence, source, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, entry.Assessment.Label, entry.Assessment.Intensity, entry.Assessment.Confidence, entry.Assessment.Source, entry.RecordedAt)
	if err != nil {
		slog.Error("SQLiteStore Record insert failed", "error", err, "user", userID)
		return fmt.Errorf("failed to insert history entry for %s: %w", userID, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM mood_history WHERE user_id = ? AND id NOT IN (
			SELECT id FROM mood_history WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`, userID, userID, MaxEntriesPerUser)
	if err != nil {
		slog.Error("SQLiteStore Record trim failed", "error", err, "user", userID)
		return fmt.Errorf("failed to trim history for %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entry for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore Record succeeded", "user", userID, "label", entry.Assessment.Label)
	return nil
}

// List returns the user's entries most-recent-first.
func (s *SQLiteStore) List(ctx context.Context, userID string, limit int) ([]models.MoodHistoryEntry, error) {
	if limit <= 0 || limit > MaxEntriesPerUser {
		limit = MaxEntriesPerUser
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, intensity, confidence, source, recorded_at FROM mood_history
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		slog.Error("SQLiteStore List query failed", "error", err, "user", userID)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		slog.Error("SQLiteStore List scan failed", "error", err, "user", userID)
		return nil, err
	}
	slog.Debug("SQLiteStore List succeeded", "user", userID, "count", len(entries))
	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
