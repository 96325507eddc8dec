// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package places resolves a business record to a Place ID through the
// Find Place From Text endpoint of the places API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/place-resolver/internal/httputil"
	"github.com/pdiddy/place-resolver/pkg/types"
)

// findPlaceBase is the public Find Place From Text endpoint. Declared as a
// var so tests can substitute an httptest server.
var findPlaceBase = "https://maps.googleapis.com/maps/api/place/findplacefromtext/json"

const (
	DefaultTimeout = 10 * time.Second
	DefaultRegion  = "ME"
	DefaultFields  = "place_id,name,formatted_address"
)

// Response status values returned in the body alongside the candidates.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// Resolver turns a record into a Place ID. An empty ID with a nil error
// means the service had no candidate for the record.
type Resolver interface {
	FindPlaceID(ctx context.Context, r types.PlaceRecord) (string, error)
}

// Result is one decoded lookup. PlaceID is the first candidate's id, or
// empty when there is none, whatever the status.
type Result struct {
	PlaceID string
	Status  string
	Message string
}

// Final reports whether the status is an answer from the service rather than
// a refusal (denied key, quota, bad request). Only final results are worth
// keeping across runs.
func (r Result) Final() bool {
	return r.Status == "" || r.Status == StatusOK || r.Status == StatusZeroResults
}

// Looker is implemented by resolvers that expose the response status.
type Looker interface {
	Lookup(ctx context.Context, r types.PlaceRecord) (Result, error)
}

// StatusError reports a response whose body status is neither OK nor
// ZERO_RESULTS, such as a denied key. It is only returned in strict mode.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "places API status " + e.Status
	}
	return fmt.Sprintf("places API status %s: %s", e.Status, e.Message)
}

// Client queries the places API. The zero Config is usable once APIKey is
// set; empty fields fall back to the package defaults.
type Client struct {
	HTTP   *http.Client
	Config types.LookupConfig

	// Warn receives a line for each non-final status. Nil discards them.
	Warn io.Writer
}

// NewClient returns a Client with an http.Client honouring cfg.Timeout.
func NewClient(cfg types.LookupConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// BuildQuery returns the free-text search string for r:
// "Name, Address, City Region Zip".
func BuildQuery(r types.PlaceRecord, region string) string {
	tail := strings.Join(strings.Fields(r.City+" "+region+" "+r.Zip), " ")
	return r.Name + ", " + r.Address + ", " + tail
}

// FindPlaceID sends one lookup for r and returns the first candidate's
// place_id, or "" when there is none.
func (c *Client) FindPlaceID(ctx context.Context, r types.PlaceRecord) (string, error) {
	res, err := c.Lookup(ctx, r)
	return res.PlaceID, err
}

// Lookup sends one lookup for r. Transport failures, non-200 responses and
// undecodable bodies are errors. A body status other than OK or ZERO_RESULTS
// is written to Warn and the candidates are used as they are, unless
// Config.Strict is set, in which case it is returned as a *StatusError.
func (c *Client) Lookup(ctx context.Context, r types.PlaceRecord) (Result, error) {
	if c.Config.APIKey == "" {
		return Result{}, fmt.Errorf("places client has no API key")
	}

	region := c.Config.Region
	if region == "" {
		region = DefaultRegion
	}
	fields := c.Config.Fields
	if fields == "" {
		fields = DefaultFields
	}
	endpoint := c.Config.Endpoint
	if endpoint == "" {
		endpoint = findPlaceBase
	}

	params := url.Values{
		"input":     {BuildQuery(r, region)},
		"inputtype": {"textquery"},
		"fields":    {fields},
		"key":       {c.Config.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.MaxRetries)
	if err != nil {
		return Result{}, fmt.Errorf("places API request: %w", redactKey(err, c.Config.APIKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("places API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var fr findPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return Result{}, fmt.Errorf("parsing places response: %w", err)
	}

	res := fr.result()
	if !res.Final() {
		se := &StatusError{Status: res.Status, Message: res.Message}
		if c.Config.Strict {
			return Result{}, se
		}
		if c.Warn != nil {
			fmt.Fprintf(c.Warn, "warning: %s: %v\n", r.Name, se)
		}
	}
	return res, nil
}

func (fr findPlaceResponse) result() Result {
	res := Result{Status: fr.Status, Message: fr.ErrorMessage}
	if len(fr.Candidates) > 0 {
		res.PlaceID = fr.Candidates[0].PlaceID
	}
	return res
}

// redactKey strips the API key from url.Error messages, which echo the
// full request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "<redacted>")
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// Find Place From Text JSON structures.
type findPlaceResponse struct {
	Candidates   []candidate `json:"candidates"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

type candidate struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}
