// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxErrorBody bounds how much of a failed response body is kept for messages.
const maxErrorBody = 512

// DoWithRetry executes an HTTP request. With maxRetries <= 0 the request is
// sent exactly once and a 429 response is returned to the caller as-is, which
// is the fail-fast default. With maxRetries > 0 a 429 is retried with
// exponential backoff starting at RetryBaseDelay.
//
// On each retried 429 the response body is drained and closed before sleeping.
// If the context is cancelled during a backoff wait the function returns
// ctx.Err(). After exhausting retries the last 429 response is returned so the
// caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			r.Body = body
		}
		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// StatusError describes a non-2xx response from an upstream API.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Service, e.StatusCode, e.Body)
}

// CheckStatus returns nil for 2xx responses. Otherwise it reads a bounded
// prefix of the body and returns a *StatusError. The body is not closed.
func CheckStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
}
