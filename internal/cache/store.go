// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps previously resolved Place IDs in SQLite so repeat runs
// can skip the network, and logs each resolve run.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/place-resolver/pkg/types"
)

const (
	// DefaultPath is the cache database used when none is configured.
	DefaultPath = ".place-resolver/cache.db"

	// DefaultTTL is how long a cached lookup stays valid.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "placeid_"

	// timeFormat is fixed-width so stored timestamps compare correctly as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the lookup cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates the cache database at cfg.Path and creates the
// schema if needed. A zero cfg.TTL means entries never expire.
func Open(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			key TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			place_id TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			records INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			cache_hits INTEGER NOT NULL,
			output_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Key normalizes a query into a cache key: prefixed, lowercased, with all
// whitespace removed.
func Key(query string) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	for _, r := range strings.ToLower(query) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Get returns the cached Place ID for query. ok is false on a miss or when
// the entry is older than the TTL. A cached empty ID is a hit: the service
// previously had no candidate for this query.
func (s *Store) Get(ctx context.Context, query string) (placeID string, ok bool, err error) {
	var fetched string
	err = s.db.QueryRowContext(ctx,
		`SELECT place_id, fetched_at FROM lookups WHERE key = ?`, Key(query),
	).Scan(&placeID, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}

	if s.ttl > 0 {
		t, parseErr := time.Parse(timeFormat, fetched)
		if parseErr != nil || s.now().Sub(t) > s.ttl {
			return "", false, nil
		}
	}
	return placeID, true, nil
}

// Put stores placeID for query, replacing any previous entry.
func (s *Store) Put(ctx context.Context, query, placeID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (key, query, place_id, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			query=excluded.query, place_id=excluded.place_id, fetched_at=excluded.fetched_at`,
		Key(query), query, placeID, s.now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Clear removes every cached lookup and returns how many were removed.
// The run log is kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookups`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
