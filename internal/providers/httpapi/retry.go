// internal/providers/httpapi/retry.go
package httpapi

import (
	"context"
	"time"

	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/providers"
)

// defaultRetryBackoff is the wait before the first retry; it doubles per attempt.
const defaultRetryBackoff = 500 * time.Millisecond

// RetryingQueries retries transient query failures. Non-transient outcomes,
// including 400 and 401, are returned on the first attempt.
type RetryingQueries struct {
	Next    providers.QueryProvider
	Retries int
	Backoff time.Duration
}

// Query implements providers.QueryProvider.
func (r RetryingQueries) Query(ctx context.Context, prompt, token string) (providers.Result, error) {
	backoff := r.Backoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var (
		res providers.Result
		err error
	)
	for attempt := 0; ; attempt++ {
		res, err = r.Next.Query(ctx, prompt, token)
		if err == nil || !IsTransient(err) || attempt >= r.Retries {
			return res, err
		}
		logging.LogEvent("query attempt %d/%d failed: %v", attempt+1, r.Retries+1, err)

		select {
		case <-ctx.Done():
			return res, err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
