// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes resolved records to CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/place-resolver/pkg/types"
)

// DefaultPath is the output file written when none is configured.
const DefaultPath = "maine_cheese_places_with_ids.csv"

// Header is the fixed CSV header row.
var Header = []string{"Name", "Address", "City", "Zip", "Place ID", "Phone"}

// Write emits the header and one row per record, in order, with CRLF row
// terminators.
func Write(w io.Writer, recs []types.PlaceRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range recs {
		row := []string{r.Name, r.Address, r.City, r.Zip, r.PlaceID, r.Phone}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes recs to path through a temporary file in the same
// directory and renames it into place, replacing any existing file. On
// failure the temporary file is removed and path is left untouched.
func WriteFile(path string, recs []types.PlaceRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".place-resolver-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := Write(tmpFile, recs)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
