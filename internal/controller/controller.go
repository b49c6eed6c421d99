// internal/controller/controller.go

// Package controller implements the session state controller: the bounded
// result history, the pagination window over it, the user-ordered pipeline of
// executed statements, and the authenticated bootstrap that hydrates them.
//
// A Controller is single-threaded. Every mutation must happen on one
// goroutine; renderers that fetch in the background use the Begin/Apply pairs
// so the network call runs elsewhere while the state change does not.
package controller

import (
	"context"
	"errors"

	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/pagination"
	"github.com/mwiater/promptsql/internal/pipeline"
	"github.com/mwiater/promptsql/internal/providers"
	"github.com/mwiater/promptsql/internal/session"
)

// ErrRedirected is reported by callers that need an authenticated session
// when the controller has handed control back to the login flow.
var ErrRedirected = errors.New("not logged in: run `promptsql login` to start a session")

// User-facing messages.
const (
	MessageClarify            = providers.ClarificationSentinel
	MessageServiceUnavailable = "The query service is temporarily unavailable. Please try again in a moment."
	MessageBadRequest         = "That prompt could not be turned into a query. Try rephrasing it."
	MessageServerError        = "The query service returned an unexpected error."
	MessageNetwork            = "Could not reach the query service. Check your connection and try again."
	MessageSessionExpired     = "Your session has expired. Please log in again."
)

// State is the bootstrap lifecycle of a controller.
type State int

const (
	// StateUnauthenticated is the state of a controller that has not bootstrapped yet.
	StateUnauthenticated State = iota
	// StateHydrating means the history fetch is in flight.
	StateHydrating
	// StateReady accepts submissions and navigation.
	StateReady
	// StateRedirected is terminal: the credential is missing or was rejected.
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	case StateRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Options tunes a controller. Zero values select the defaults.
type Options struct {
	Capacity   int
	MaxVisible int
}

// Controller owns the session's history store and pipeline list.
type Controller struct {
	creds   session.Credentials
	queries providers.QueryProvider
	history providers.HistoryProvider

	store      *history.Store
	steps      *pipeline.List
	maxVisible int

	state        State
	token        string
	bootstrapped bool
	loading      bool
	nearLimit    bool
	message      string
}

// New returns a controller in StateUnauthenticated. Call Bootstrap (or the
// BeginBootstrap/ApplyHistory pair) before anything else.
func New(creds session.Credentials, queries providers.QueryProvider, hist providers.HistoryProvider, opts Options) *Controller {
	maxVisible := opts.MaxVisible
	if maxVisible <= 0 {
		maxVisible = pagination.DefaultMaxVisible
	}
	return &Controller{
		creds:      creds,
		queries:    queries,
		history:    hist,
		store:      history.NewStore(opts.Capacity),
		steps:      pipeline.NewList(),
		maxVisible: maxVisible,
		state:      StateUnauthenticated,
	}
}

// State returns the bootstrap state.
func (c *Controller) State() State { return c.state }

// Loading reports whether a submission is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Message returns the current user-facing message, if any.
func (c *Controller) Message() string { return c.message }

// NearLimit reports whether the near-capacity notice is showing.
func (c *Controller) NearLimit() bool { return c.nearLimit }

// Entries returns the stored results, most recent first.
func (c *Controller) Entries() []history.Entry { return c.store.Entries() }

// Steps returns the pipeline in its current order.
func (c *Controller) Steps() []pipeline.Step { return c.steps.Steps() }

// redirect discards the credential and hands control to the login flow.
func (c *Controller) redirect(reason string) {
	if c.creds != nil {
		if err := c.creds.Clear(); err != nil {
			logging.LogEvent("controller: clearing credential failed: %v", err)
		}
	}
	c.token = ""
	c.loading = false
	c.state = StateRedirected
	logging.LogEvent("controller: redirected to login (%s)", reason)
}

// Logout discards the credential and ends the session.
func (c *Controller) Logout() {
	c.redirect("logout")
}

// Bootstrap validates the held credential and hydrates history from the
// backend. It runs at most once per controller; later calls are ignored.
func (c *Controller) Bootstrap(ctx context.Context) {
	token, ok := c.BeginBootstrap()
	if !ok {
		return
	}
	records, err := c.history.History(ctx, token)
	c.ApplyHistory(records, err)
}

// BeginBootstrap starts the bootstrap. It returns the token to fetch history
// with and true when a fetch is required. Without a credential the controller
// moves straight to StateRedirected and no fetch happens.
func (c *Controller) BeginBootstrap() (string, bool) {
	if c.bootstrapped {
		return "", false
	}
	c.bootstrapped = true

	var token string
	var ok bool
	if c.creds != nil {
		token, ok = c.creds.Token()
	}
	if !ok || c.history == nil {
		c.state = StateRedirected
		logging.LogEvent("controller: no credential held, skipping history fetch")
		return "", false
	}
	c.token = token
	c.state = StateHydrating
	return token, true
}

// ApplyHistory completes a bootstrap started by BeginBootstrap. Records arrive
// most recent first; only the newest that fit in the store are kept.
func (c *Controller) ApplyHistory(records []providers.HistoryRecord, err error) {
	if c.state != StateHydrating {
		return
	}
	switch {
	case errors.Is(err, providers.ErrUnauthorized):
		c.redirect("history fetch unauthorized")
		return
	case err != nil:
		logging.LogEvent("controller: history fetch failed, starting empty: %v", err)
		c.state = StateReady
		return
	}

	kept := make([]providers.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Prompt == "" {
			continue
		}
		kept = append(kept, rec)
		if len(kept) == c.store.Capacity() {
			break
		}
	}
	for i := len(kept) - 1; i >= 0; i-- {
		rec := kept[i]
		entry := c.store.InsertFront(history.Entry{
			Query: rec.Prompt,
			Payload: history.Payload{
				Rows:        rec.StoredResult,
				ChartSeries: []history.Record{},
			},
			GeneratedStatement: rec.GeneratedStatement,
			CreatedAt:          rec.CreatedTime(),
		})
		c.steps.Prepend(pipeline.Step{ID: entry.ID, Statement: entry.GeneratedStatement})
	}
	c.state = StateReady
	logging.LogEvent("controller: hydrated %d of %d history records", len(kept), len(records))
}
