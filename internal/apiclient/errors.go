package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrScopedCache  = errors.New("authenticated requests cannot be cached")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// WithFallback returns err unchanged unless it is an APIError without a
// backend detail, in which case the detail becomes msg.
func WithFallback(err error, msg string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "" {
		return err
	}
	return &APIError{Status: apiErr.Status, Detail: msg}
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
}

func parseErrorDetail(raw []byte) string {
	var b errorBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return ""
	}
	for _, f := range []json.RawMessage{b.Message, b.Detail, b.Error} {
		if s := rawText(f); s != "" {
			return s
		}
	}
	return ""
}

// rawText flattens a string, or a list of strings, as sent by DRF-style backends.
func rawText(f json.RawMessage) string {
	if len(f) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(f, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}
