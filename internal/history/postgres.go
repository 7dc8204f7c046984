// This file implements the PostgreSQL-backed mood history store.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/safespace-app/safespace/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists mood history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// Record appends an entry and trims the user's history to the retention
// cap inside one transaction.
func (s *PostgresStore) Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mood_history (user_id, label, intensity, confidence, source, recorded_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, entry.Assessment.Label, entry.Assessment.Intensity, entry.Assessment.Confidence, entry.Assessment.Source, entry.RecordedAt)
	if err != nil {
		slog.Error("PostgresStore Record insert failed", "error", err, "user", userID)
		return fmt.Errorf("failed to insert history entry for %s: %w", userID, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM mood_history WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM mood_history WHERE user_id = $1 ORDER BY id DESC LIMIT $2
		)`, userID, MaxEntriesPerUser)
	if err != nil {
		slog.Error("PostgresStore Record trim failed", "error", err, "user", userID)
		return fmt.Errorf("failed to trim history for %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entry for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore Record succeeded", "user", userID, "label", entry.Assessment.Label)
	return nil
}

// List returns the user's entries most-recent-first.
func (s *PostgresStore) List(ctx context.Context, userID string, limit int) ([]models.MoodHistoryEntry, error) {
	if limit <= 0 || limit > MaxEntriesPerUser {
		limit = MaxEntriesPerUser
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, intensity, confidence, source, recorded_at FROM mood_history
		 WHERE user_id = $1 ORDER BY id DESC LIMIT $2`, userID, limit)
	if err != nil {
		slog.Error("PostgresStore List query failed", "error", err, "user", userID)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		slog.Error("PostgresStore List scan failed", "error", err, "user", userID)
		return nil, err
	}
	slog.Debug("PostgresStore List succeeded", "user", userID, "count", len(entries))
	return entries, nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
