// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client calls the research API from terminal clients.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// EnvAPIURL overrides the configured API URL.
const EnvAPIURL = "WEB_SCOUT_API_URL"

// TransportError is a failed call to the research API. Message is what the
// user should see: the server's error text, or a generic fallback.
type TransportError struct {
	StatusCode int
	Message    string
	Stage      string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is matches stage.ErrTransport.
func (e *TransportError) Is(target error) bool { return target == stage.ErrTransport }

// Client talks to one research API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Research posts query to /api/research. Any failure is a *TransportError.
func (c *Client) Research(ctx context.Context, query string) (*types.ResearchResult, error) {
	body, err := json.Marshal(types.ResearchRequest{Query: query})
	if err != nil {
		return nil, &TransportError{Message: fallbackMessage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/research", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: fallbackMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &TransportError{Message: fallbackMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, &TransportError{Message: fallbackMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{StatusCode: resp.StatusCode, Message: fallbackMessage}
		var er types.ErrorResponse
		if json.Unmarshal(data, &er) == nil {
			// FastAPI-style backends only send "detail".
			if msg := strings.TrimSpace(er.Error); msg != "" {
				te.Message = msg
			} else if msg := strings.TrimSpace(er.Detail); msg != "" {
				te.Message = msg
			}
			te.Stage = er.Stage
		}
		return nil, te
	}

	var res types.ResearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &TransportError{Message: fallbackMessage, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if res.Status != types.StatusSuccess {
		return nil, &TransportError{Message: fallbackMessage, Err: errors.New("unexpected status " + res.Status)}
	}
	return &res, nil
}

// fallbackMessage is shown when the server gives no error text.
var fallbackMessage = stage.MessageOf(stage.New(stage.KindTransport, nil))

// MessageOf returns the user-facing text for a Research error.
func MessageOf(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	if err == nil {
		return ""
	}
	return fallbackMessage
}
