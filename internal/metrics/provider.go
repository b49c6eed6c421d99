// internal/metrics/provider.go
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/mwiater/promptsql/internal/providers"
)

// Provider is a decorator that wraps a QueryProvider to record latency.
type Provider struct {
	wrapped    providers.QueryProvider
	aggregator *Aggregator
	now        func() time.Time
}

// NewProvider creates a metrics-enabled provider that wraps an existing QueryProvider.
func NewProvider(wrapped providers.QueryProvider, aggregator *Aggregator) *Provider {
	return &Provider{wrapped: wrapped, aggregator: aggregator, now: time.Now}
}

// Query times the wrapped call and records its outcome.
func (p *Provider) Query(ctx context.Context, prompt, token string) (providers.Result, error) {
	start := p.now()
	res, err := p.wrapped.Query(ctx, prompt, token)
	if p.aggregator != nil {
		p.aggregator.Record(Classify(res, err), p.now().Sub(start))
	}
	return res, err
}

// Classify maps a query result to its outcome.
func Classify(res providers.Result, err error) Outcome {
	var (
		badRequest *providers.BadRequestError
		status     *providers.StatusError
	)
	switch {
	case err == nil && res.NeedsClarification():
		return OutcomeClarification
	case err == nil:
		return OutcomeOK
	case errors.Is(err, providers.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, providers.ErrServiceUnavailable):
		return OutcomeServiceUnavailable
	case errors.As(err, &badRequest):
		return OutcomeBadRequest
	case errors.As(err, &status):
		return OutcomeServerError
	default:
		return OutcomeNetwork
	}
}
