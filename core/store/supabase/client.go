// Package supabase implements the task/contact store contract against a
// Supabase (PostgREST-style) REST backend. Row-level security on the backend
// scopes every call to the bearer credential's user, so the client never
// filters by user id itself.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voxtask/voice-core/core/auth"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const restPath = "/rest/v1/"

type Client struct {
	baseURL string
	apiKey  string
	tokens  auth.TokenSource

	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client, mostly for
// tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a store client for the project at baseURL (e.g.
// "https://abc.supabase.co"). apiKey is the project's anon key; tokens
// supplies the per-user bearer credential.
func NewClient(baseURL, apiKey string, tokens auth.TokenSource, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tokens:  tokens,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// do issues one REST call and decodes the response into out when out is
// non-nil. PostgREST returns JSON arrays for every representation, callers
// pass slice pointers.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve credential: %w", err)
	}

	endpoint := c.baseURL + restPath + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil && method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// firstRow unwraps PostgREST's single-element representation arrays.
func firstRow[T any](rows []T, what string) (*T, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no %s row", what)
	}
	return &rows[0], nil
}
