package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/pipeline"
	"github.com/mwiater/promptsql/internal/providers"
)

// Submission is one accepted prompt awaiting its query result.
type Submission struct {
	Prompt string
	Token  string
}

// Submit runs one prompt through the query service and applies the outcome.
// It reports whether the prompt was accepted; empty prompts, prompts sent
// while another is in flight and prompts outside StateReady are ignored.
func (c *Controller) Submit(ctx context.Context, prompt string) bool {
	sub, ok := c.BeginSubmit(prompt)
	if !ok {
		return false
	}
	res, err := c.queries.Query(ctx, sub.Prompt, sub.Token)
	c.ApplyResult(sub, res, err)
	return true
}

// BeginSubmit validates the prompt and marks the controller as loading. The
// near-limit notice is raised here, before the outcome is known, when the
// next insertion would fill the store.
func (c *Controller) BeginSubmit(prompt string) (Submission, bool) {
	if strings.TrimSpace(prompt) == "" {
		return Submission{}, false
	}
	if c.state != StateReady || c.loading || c.queries == nil {
		return Submission{}, false
	}
	if c.store.NearLimit() {
		c.nearLimit = true
	}
	c.loading = true
	return Submission{Prompt: prompt, Token: c.token}, true
}

// ApplyResult classifies the query outcome and applies it. Every failure is
// terminal for the submission and becomes the controller's message.
func (c *Controller) ApplyResult(sub Submission, res providers.Result, err error) {
	defer func() { c.loading = false }()

	if c.state != StateReady {
		logging.LogEvent("controller: dropping result for %q, session is %s", sub.Prompt, c.state)
		return
	}

	if err != nil {
		c.applyFailure(err)
		return
	}

	entry := c.store.InsertFront(history.Entry{
		Query:              sub.Prompt,
		Payload:            res.Payload,
		GeneratedStatement: res.GeneratedStatement,
	})
	c.steps.Prepend(pipeline.Step{ID: entry.ID, Statement: entry.GeneratedStatement})

	if res.NeedsClarification() {
		c.message = MessageClarify
		logging.LogEvent("controller: entry %d needs clarification", entry.ID)
		return
	}
	c.message = ""
	logging.LogEvent("controller: entry %d stored with %d rows", entry.ID, len(res.Payload.Rows))
}

func (c *Controller) applyFailure(err error) {
	var (
		badRequest *providers.BadRequestError
		status     *providers.StatusError
	)
	switch {
	case errors.Is(err, providers.ErrUnauthorized):
		c.message = MessageSessionExpired
		c.redirect("query unauthorized")
	case errors.Is(err, providers.ErrServiceUnavailable):
		c.message = MessageServiceUnavailable
	case errors.As(err, &badRequest):
		c.message = badRequest.Detail
		if c.message == "" {
			c.message = MessageBadRequest
		}
	case errors.As(err, &status):
		c.message = MessageServerError
	default:
		c.message = MessageNetwork
	}
	logging.LogEvent("controller: submission failed: %v", err)
}
