// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/place-resolver/internal/places"
	"github.com/pdiddy/place-resolver/internal/records"
	"github.com/pdiddy/place-resolver/pkg/types"
)

// --- mock resolver ---

type mockResolver struct {
	ids    map[string]string
	failOn string
	seen   []string
}

func (m *mockResolver) FindPlaceID(_ context.Context, r types.PlaceRecord) (string, error) {
	m.seen = append(m.seen, r.Name)
	if r.Name == m.failOn {
		return "", fmt.Errorf("connection refused")
	}
	return m.ids[r.Name], nil
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// --- Run ---

func TestRunDefaultRecords(t *testing.T) {
	recs := records.Default()
	ids := map[string]string{}
	for i, r := range recs {
		if i%4 != 3 {
			ids[r.Name] = fmt.Sprintf("ChIJ%02d", i)
		}
	}
	m := &mockResolver{ids: ids}
	path := filepath.Join(t.TempDir(), "out.csv")
	var buf bytes.Buffer

	res, err := Run(context.Background(), recs, m, Options{OutputPath: path}, &buf)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, len(recs)+1, "one row per record plus header")
	assert.Equal(t, []string{"Name", "Address", "City", "Zip", "Place ID", "Phone"}, rows[0])
	for i, r := range recs {
		assert.Equal(t, r.Name, rows[i+1][0], "row order matches input")
		assert.Equal(t, ids[r.Name], rows[i+1][4])
		assert.Equal(t, r.Phone, rows[i+1][5])
	}

	assert.Equal(t, 17, res.Total())
	assert.Equal(t, 13, res.Resolved)
	assert.Equal(t, 4, res.Empty)
	assert.Equal(t, path, res.OutputPath)
	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 18)
	assert.Equal(t, "Sissle & Daughters: ChIJ00", lines[0])
	assert.Equal(t, "Wrote "+path, lines[17])
}

func TestRunDoesNotMutateInput(t *testing.T) {
	recs := []types.PlaceRecord{{Name: "A"}, {Name: "B"}}
	m := &mockResolver{ids: map[string]string{"A": "1", "B": "2"}}

	res, err := Run(context.Background(), recs, m, Options{OutputPath: filepath.Join(t.TempDir(), "o.csv")}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, recs[0].PlaceID)
	assert.Equal(t, "1", res.Records[0].PlaceID)
	assert.Equal(t, "2", res.Records[1].PlaceID)
}

func TestRunAbortsWithoutOutput(t *testing.T) {
	recs := records.Default()
	m := &mockResolver{failOn: recs[5].Name}
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := Run(context.Background(), recs, m, Options{OutputPath: path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 6")
	assert.Len(t, m.seen, 6, "no lookups after the failure")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no output file on failure")
}

func TestRunFailureKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	m := &mockResolver{failOn: "A"}
	_, err := Run(context.Background(), []types.PlaceRecord{{Name: "A"}}, m, Options{OutputPath: path}, &bytes.Buffer{})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(data))
}

func TestRunNoRecords(t *testing.T) {
	_, err := Run(context.Background(), nil, &mockResolver{}, Options{OutputPath: filepath.Join(t.TempDir(), "o.csv")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no records")
}

func TestRunCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	m := &mockResolver{}
	recs := []types.PlaceRecord{{Name: "A"}, {Name: "B"}}
	path := filepath.Join(t.TempDir(), "o.csv")

	_, err := Run(ctx, recs, m, Options{OutputPath: path, Delay: time.Second}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"A"}, m.seen)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// --- end to end through the HTTP client ---

func TestRunWithPlacesClient(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if strings.HasPrefix(r.URL.Query().Get("input"), "Galley Provisions") {
			fmt.Fprint(w, `{"candidates":[],"status":"ZERO_RESULTS"}`)
			return
		}
		fmt.Fprint(w, `{"candidates":[{"place_id":"ChIJtop"},{"place_id":"ChIJnext"}],"status":"OK"}`)
	}))
	defer ts.Close()

	client := places.NewClient(types.LookupConfig{APIKey: "k", Endpoint: ts.URL})
	path := filepath.Join(t.TempDir(), "out.csv")

	res, err := Run(context.Background(), records.Default(), client, Options{OutputPath: path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, int32(17), atomic.LoadInt32(&calls))
	assert.Equal(t, 16, res.Resolved)
	assert.Equal(t, 1, res.Empty)

	rows := readRows(t, path)
	assert.Equal(t, "ChIJtop", rows[1][4])
	assert.Equal(t, "", rows[6][4], "Galley Provisions has no match")
}

func TestRunTransportFailureWritesNothing(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) >= 3 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		fmt.Fprint(w, `{"candidates":[{"place_id":"ChIJ"}],"status":"OK"}`)
	}))
	defer ts.Close()

	client := places.NewClient(types.LookupConfig{APIKey: "k", Endpoint: ts.URL})
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := Run(context.Background(), records.Default(), client, Options{OutputPath: path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "places API request")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunRefusedStatusWritesEmptyRow(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("input"), "A,") {
			fmt.Fprint(w, `{"candidates":[],"status":"OVER_QUERY_LIMIT"}`)
			return
		}
		fmt.Fprint(w, `{"candidates":[{"place_id":"ChIJb"}],"status":"OK"}`)
	}))
	defer ts.Close()

	client := places.NewClient(types.LookupConfig{APIKey: "k", Endpoint: ts.URL})
	var warn bytes.Buffer
	client.Warn = &warn
	recs := []types.PlaceRecord{{Name: "A"}, {Name: "B"}}
	path := filepath.Join(t.TempDir(), "out.csv")

	res, err := Run(context.Background(), recs, client, Options{OutputPath: path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Empty)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, "warning: A: places API status OVER_QUERY_LIMIT\n", warn.String())

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "", "", "", "", ""}, rows[1])
	assert.Equal(t, "ChIJb", rows[2][4])
}

func TestRunStrictRefusedStatusAborts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[],"status":"REQUEST_DENIED"}`)
	}))
	defer ts.Close()

	client := places.NewClient(types.LookupConfig{APIKey: "k", Endpoint: ts.URL, Strict: true})
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := Run(context.Background(), []types.PlaceRecord{{Name: "A"}}, client, Options{OutputPath: path}, &bytes.Buffer{})
	var se *places.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, places.StatusRequestDenied, se.Status)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
