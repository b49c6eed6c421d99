// internal/metrics/metrics_test.go
package metrics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/providers"
)

func TestRunningStat(t *testing.T) {
	var rs RunningStat
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		rs.add(v)
	}
	if rs.Count != 8 || math.Abs(rs.Mean-5) > 1e-9 || rs.Min != 2 || rs.Max != 9 {
		t.Fatalf("unexpected stat: %+v", rs)
	}
	if got := rs.Variance(); math.Abs(got-32.0/7.0) > 1e-9 {
		t.Fatalf("Variance = %v", got)
	}
	if (RunningStat{Count: 1}).Variance() != 0 {
		t.Fatalf("expected zero variance for a single value")
	}
}

func TestClassify(t *testing.T) {
	clarify := providers.Result{Payload: history.Payload{Rows: []history.Record{history.NewRecord("m", providers.ClarificationSentinel)}}}
	cases := []struct {
		res  providers.Result
		err  error
		want Outcome
	}{
		{providers.Result{}, nil, OutcomeOK},
		{clarify, nil, OutcomeClarification},
		{providers.Result{}, providers.ErrUnauthorized, OutcomeUnauthorized},
		{providers.Result{}, providers.ErrServiceUnavailable, OutcomeServiceUnavailable},
		{providers.Result{}, &providers.BadRequestError{Detail: "x"}, OutcomeBadRequest},
		{providers.Result{}, &providers.StatusError{Code: 500}, OutcomeServerError},
		{providers.Result{}, &providers.NetworkError{Op: "POST /query", Err: errors.New("refused")}, OutcomeNetwork},
	}
	for _, tc := range cases {
		if got := Classify(tc.res, tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %s; want %s", tc.err, got, tc.want)
		}
	}
}

type stubQueries struct{ err error }

func (s stubQueries) Query(ctx context.Context, prompt, token string) (providers.Result, error) {
	return providers.Result{}, s.err
}

func TestProviderRecordsLatency(t *testing.T) {
	agg := NewAggregator()
	p := NewProvider(stubQueries{}, agg)

	clock := time.Unix(0, 0)
	p.now = func() time.Time {
		clock = clock.Add(150 * time.Millisecond)
		return clock
	}
	if _, err := p.Query(context.Background(), "q", "tok"); err != nil {
		t.Fatalf("Query: %v", err)
	}

	p.wrapped = stubQueries{err: providers.ErrServiceUnavailable}
	if _, err := p.Query(context.Background(), "q", "tok"); !errors.Is(err, providers.ErrServiceUnavailable) {
		t.Fatalf("expected wrapped error passed through, got %v", err)
	}

	s := agg.Snapshot()
	if s.TotalQueries != 2 || s.Last != 150*time.Millisecond || s.LastOutcome != OutcomeServiceUnavailable {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if s.Overall.Mean != 150 {
		t.Fatalf("expected mean 150ms, got %v", s.Overall.Mean)
	}
	if len(s.ByOutcome) != 2 || s.ByOutcome[0].Outcome != OutcomeOK || s.ByOutcome[1].Outcome != OutcomeServiceUnavailable {
		t.Fatalf("unexpected outcomes: %+v", s.ByOutcome)
	}
}
