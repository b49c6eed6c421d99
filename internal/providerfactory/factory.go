// internal/providerfactory/factory.go
package providerfactory

import (
	"time"

	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/metrics"
	"github.com/mwiater/promptsql/internal/providers"
	"github.com/mwiater/promptsql/internal/providers/httpapi"
)

// Options selects the decorators applied around a query provider.
type Options struct {
	// Retries is the number of extra attempts made for transient failures.
	Retries int
	// Backoff is the wait before the first retry; zero uses the default.
	Backoff time.Duration
	// Aggregator, when set, records the latency and outcome of every query.
	Aggregator *metrics.Aggregator
}

// NewQueryProvider wraps backend with the decorators chosen in opts. Metrics
// wrap the retries, so a recorded latency covers every attempt.
func NewQueryProvider(backend providers.QueryProvider, opts Options) providers.QueryProvider {
	provider := backend
	if opts.Retries > 0 {
		provider = httpapi.RetryingQueries{Next: provider, Retries: opts.Retries, Backoff: opts.Backoff}
		logging.LogEvent("query retries enabled: %d", opts.Retries)
	}
	if opts.Aggregator != nil {
		provider = metrics.NewProvider(provider, opts.Aggregator)
	}
	return provider
}
