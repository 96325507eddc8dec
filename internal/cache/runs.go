// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"time"
)

// Run is one entry in the run log.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    int
	Resolved   int
	CacheHits  int
	OutputPath string
}

// Stats summarizes the cache contents and recent runs.
type Stats struct {
	Entries int
	Expired int
	Runs    []Run
}

// RecordRun appends r to the run log.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, records, resolved, cache_hits, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(timeFormat), r.FinishedAt.UTC().Format(timeFormat),
		r.Records, r.Resolved, r.CacheHits, r.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

// Stats counts cached entries, how many of them are past the TTL, and
// returns up to recent runs, newest first.
func (s *Store) Stats(ctx context.Context, recent int) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM lookups`).Scan(&st.Entries); err != nil {
		return st, fmt.Errorf("counting entries: %w", err)
	}

	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl).UTC().Format(timeFormat)
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM lookups WHERE fetched_at < ?`, cutoff,
		).Scan(&st.Expired); err != nil {
			return st, fmt.Errorf("counting expired entries: %w", err)
		}
	}

	if recent <= 0 {
		return st, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, records, resolved, cache_hits, COALESCE(output_path, '')
		 FROM runs ORDER BY started_at DESC LIMIT ?`, recent)
	if err != nil {
		return st, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Records, &r.Resolved, &r.CacheHits, &r.OutputPath); err != nil {
			return st, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(timeFormat, started)
		r.FinishedAt, _ = time.Parse(timeFormat, finished)
		st.Runs = append(st.Runs, r)
	}
	return st, rows.Err()
}
