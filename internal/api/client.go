// Package api is the authenticated request pipeline: it attaches the current
// bearer token to every backend call, normalizes error handling, and applies
// a single policy for authorization failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TokenSource yields the current bearer token, or "" when unauthenticated.
// The pipeline reads it on every call rather than capturing it, so a logout
// or re-login is reflected on the very next request.
type TokenSource interface {
	Token() string
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource

	// onUnauthorized runs once per 401/403 response, before ErrUnauthorized
	// is returned. It clears session state; it must not navigate.
	onUnauthorized func()
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		base:   baseURL,
		http:   &http.Client{},
		tokens: tokens,
	}
}

// OnUnauthorized registers the session-invalidation hook.
func (c *Client) OnUnauthorized(fn func()) { c.onUnauthorized = fn }

// do performs an authenticated call. 401/403 triggers the invalidation hook
// and ErrUnauthorized with no retry; other non-2xx statuses become
// RequestFailedError; transport failures become NetworkError. An empty
// response body is success with a zero result.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

// doPublic is the same pipeline without the bearer token or the forced-logout
// policy. Login and registration use it: a 401 there means bad credentials,
// not a poisoned session.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, false)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestFailedError{StatusCode: resp.StatusCode, Detail: NormalizeErrorBody(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
