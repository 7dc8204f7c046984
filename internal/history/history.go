// Package history provides the append-only mood history log.
//
// The log is a capped audit trail consumed by display surfaces; it has
// no decision-making role in the pipeline. Backends: in-memory, SQLite,
// and PostgreSQL, selected by DSN.
package history

import (
	"context"
	"strings"
	"sync"

	"github.com/safespace-app/safespace/internal/models"
)

// MaxEntriesPerUser caps the retained history per user. Once the cap is
// exceeded the oldest entry is evicted first.
const MaxEntriesPerUser = 30

// Store is the append-only history log interface. Record appends one
// entry; List returns entries most-recent-first, bounded by the
// retention cap.
type Store interface {
	Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error
	List(ctx context.Context, userID string, limit int) ([]models.MoodHistoryEntry, error)
	Close() error
}

// Opts holds store configuration.
type Opts struct {
	DSN string
}

// Option configures a store backend.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL-style DSNs and
// "sqlite" for file paths.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// InMemoryStore keeps per-user history in memory. Appends for a given
// user are serialized by the store lock; reads copy a consistent
// snapshot.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]models.MoodHistoryEntry
}

// NewInMemoryStore creates an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]models.MoodHistoryEntry)}
}

// Record appends an entry for the user, evicting the oldest entry once
// the retention cap is exceeded.
func (s *InMemoryStore) Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.entries[userID], entry)
	if len(list) > MaxEntriesPerUser {
		list = list[len(list)-MaxEntriesPerUser:]
	}
	s.entries[userID] = list
	return nil
}

// List returns the user's entries most-recent-first. A limit of 0 or
// less returns up to the retention cap.
func (s *InMemoryStore) List(ctx context.Context, userID string, limit int) ([]models.MoodHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[userID]
	if limit <= 0 || limit > MaxEntriesPerUser {
		limit = MaxEntriesPerUser
	}
	n := len(list)
	if n > limit {
		n = limit
	}
	out := make([]models.MoodHistoryEntry, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
