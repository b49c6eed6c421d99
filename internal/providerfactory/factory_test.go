// internal/providerfactory/factory_test.go
package providerfactory

import (
	"context"
	"testing"
	"time"

	"github.com/mwiater/promptsql/internal/metrics"
	"github.com/mwiater/promptsql/internal/providers"
	"github.com/mwiater/promptsql/internal/providers/httpapi"
)

type stubQueries struct {
	errs  []error
	calls int
}

func (s *stubQueries) Query(ctx context.Context, prompt, token string) (providers.Result, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return providers.Result{}, s.errs[s.calls-1]
	}
	return providers.Result{GeneratedStatement: "SELECT 1"}, nil
}

func TestNewQueryProviderWithoutOptionsReturnsBackend(t *testing.T) {
	stub := &stubQueries{}
	if got := NewQueryProvider(stub, Options{}); got != providers.QueryProvider(stub) {
		t.Fatalf("expected the backend itself, got %T", got)
	}
}

func TestNewQueryProviderRetriesBeforeRecording(t *testing.T) {
	stub := &stubQueries{errs: []error{providers.ErrServiceUnavailable}}
	agg := metrics.NewAggregator()

	q := NewQueryProvider(stub, Options{Retries: 1, Backoff: time.Millisecond, Aggregator: agg})
	if _, ok := q.(*metrics.Provider); !ok {
		t.Fatalf("expected metrics decorator outermost, got %T", q)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := q.Query(ctx, "p", "tok"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", stub.calls)
	}
	snap := agg.Snapshot()
	if snap.TotalQueries != 1 || snap.LastOutcome != metrics.OutcomeOK {
		t.Fatalf("expected one ok query recorded, got %+v", snap)
	}
}

func TestNewQueryProviderRetryOnly(t *testing.T) {
	q := NewQueryProvider(&stubQueries{}, Options{Retries: 2})
	r, ok := q.(httpapi.RetryingQueries)
	if !ok || r.Retries != 2 {
		t.Fatalf("expected RetryingQueries with 2 retries, got %#v", q)
	}
}
