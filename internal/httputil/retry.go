// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the places client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff on HTTP 429. Tests override this to
// avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// RetryLog receives one line per backoff. Callers that want the notices on
// the console point it at os.Stderr.
var RetryLog io.Writer = io.Discard

// DoWithRetry sends req and, when maxRetries is positive, retries HTTP 429
// (Too Many Requests) with exponential backoff starting at RetryBaseDelay.
//
// With maxRetries <= 0 the request is sent exactly once and whatever comes
// back is returned. Transport errors are never retried. A cancelled context
// during a backoff wait returns ctx.Err(). After the last retry the final
// 429 response is returned so the caller can report the status.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(RetryLog, "rate limited, retrying in %v (attempt %d/%d)\n", backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
