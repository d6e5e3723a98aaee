package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when the backend rejects the bearer token
// (HTTP 401/403). The pipeline clears the session before returning it; the
// caller decides whether to navigate to the login view.
var ErrUnauthorized = errors.New("unauthorized")

// RequestFailedError is any other non-success backend response.
type RequestFailedError struct {
	StatusCode int
	Detail     string
}

func (e *RequestFailedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: HTTP %d", e.StatusCode)
}

// NetworkError means no response was received at all, so the user should be
// told to check connectivity rather than their input.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "backend unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// errorBody is the backend's error envelope. Detail is either a plain string
// or a list of field errors, depending on whether validation or the handler
// itself rejected the request.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Msg string `json:"msg"`
}

// NormalizeErrorBody reduces a raw backend error payload to a single
// human-readable message. A string detail is used verbatim; a field-error
// list joins the individual messages; anything else yields "" so the caller
// can fall back to a generic message.
func NormalizeErrorBody(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var fields []fieldError
	if err := json.Unmarshal(body.Detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if m := strings.TrimSpace(f.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, ", ")
	}

	return ""
}
