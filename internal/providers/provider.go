// internal/providers/provider.go

// Package providers defines the interfaces for talking to the prompt-to-SQL backend.
// It provides a common abstraction over the query, history and auth services so the
// session controller can be driven by the HTTP implementation or by test fakes alike.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwiater/promptsql/internal/history"
)

// ClarificationSentinel is the value the query service places in a single-row
// result when it could not translate the prompt. It is a contract shared with
// the backend, which emits `SELECT 'Please clarify your question.' AS message`.
const ClarificationSentinel = "Please clarify your question."

var (
	// ErrUnauthorized means the backend rejected the credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServiceUnavailable means a backend dependency is down (502/503).
	ErrServiceUnavailable = errors.New("service unavailable")
)

// BadRequestError carries the backend's explanation for a rejected prompt.
type BadRequestError struct {
	Detail string
}

func (e *BadRequestError) Error() string {
	if e.Detail == "" {
		return "bad request"
	}
	return "bad request: " + e.Detail
}

// StatusError is any other non-success response, including success responses
// whose body could not be understood.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, body)
}

// NetworkError is a transport-level failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// Result is a successful response from the query service.
type Result struct {
	Payload            history.Payload
	GeneratedStatement string
}

// NeedsClarification reports whether the result is the backend's "ask a
// clearer question" answer: exactly one row holding the sentinel value.
func (r Result) NeedsClarification() bool {
	if len(r.Payload.Rows) != 1 {
		return false
	}
	for _, v := range r.Payload.Rows[0].Values() {
		if s, ok := v.(string); ok && s == ClarificationSentinel {
			return true
		}
	}
	return false
}

// HistoryRecord is one prior query as stored server-side.
type HistoryRecord struct {
	Prompt             string           `json:"prompt_text"`
	GeneratedStatement string           `json:"sql_text"`
	StoredResult       []history.Record `json:"result"`
	CreatedAt          string           `json:"created_at"`
}

// CreatedTime parses CreatedAt. The backend emits either RFC 3339 or a naive
// UTC timestamp; an unparseable value yields the zero time.
func (h HistoryRecord) CreatedTime() time.Time {
	value := strings.TrimSpace(h.CreatedAt)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// QueryProvider translates and runs a prompt.
type QueryProvider interface {
	Query(ctx context.Context, prompt, token string) (Result, error)
}

// HistoryProvider returns the user's prior queries, most recent first.
type HistoryProvider interface {
	History(ctx context.Context, token string) ([]HistoryRecord, error)
}

// AuthProvider issues credentials.
type AuthProvider interface {
	// Login exchanges a username and password for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// Register creates an account.
	Register(ctx context.Context, username, password string) error
}

// Backend is the full set of services the client uses.
type Backend interface {
	QueryProvider
	HistoryProvider
	AuthProvider
}
