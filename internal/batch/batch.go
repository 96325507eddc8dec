// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs one resolve pass: look up every record in order, then
// write all rows to CSV. The pass is all-or-nothing; a failed lookup aborts
// before any output is written.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/place-resolver/internal/output"
	"github.com/pdiddy/place-resolver/internal/places"
	"github.com/pdiddy/place-resolver/pkg/types"
)

// Options controls a run.
type Options struct {
	// OutputPath is the CSV file to write (default output.DefaultPath).
	OutputPath string

	// Delay is the pause between consecutive lookups.
	Delay time.Duration
}

// Result describes a completed run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []types.PlaceRecord
	Resolved   int
	Empty      int
	OutputPath string
}

// Total returns the number of records processed.
func (r Result) Total() int {
	return len(r.Records)
}

// Run resolves recs sequentially with resolver, printing "<name>: <id>"
// to w per record, then writes the CSV and prints "Wrote <path>". recs is
// not modified; the enriched copies are returned in Result.Records.
func Run(ctx context.Context, recs []types.PlaceRecord, resolver places.Resolver, opts Options, w io.Writer) (Result, error) {
	res := Result{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		OutputPath: opts.OutputPath,
	}
	if res.OutputPath == "" {
		res.OutputPath = output.DefaultPath
	}
	if len(recs) == 0 {
		return res, fmt.Errorf("no records to resolve")
	}

	rows := make([]types.PlaceRecord, len(recs))
	copy(rows, recs)

	for i := range rows {
		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		id, err := resolver.FindPlaceID(ctx, rows[i])
		if err != nil {
			return res, fmt.Errorf("resolving %q (record %d): %w", rows[i].Name, i+1, err)
		}
		rows[i].PlaceID = id
		if id == "" {
			res.Empty++
		} else {
			res.Resolved++
		}
		fmt.Fprintf(w, "%s: %s\n", rows[i].Name, id)
	}

	if err := output.WriteFile(res.OutputPath, rows); err != nil {
		return res, err
	}
	res.Records = rows
	res.FinishedAt = time.Now()
	fmt.Fprintf(w, "Wrote %s\n", res.OutputPath)
	return res, nil
}
