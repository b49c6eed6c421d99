// internal/metrics/aggregator.go

// Package metrics records query latency per outcome for the current session.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/mwiater/promptsql/internal/logging"
)

// Aggregator collects query latencies. It is safe for concurrent use.
type Aggregator struct {
	mutex       sync.Mutex
	total       int64
	last        time.Duration
	lastOutcome Outcome
	overall     RunningStat
	byOutcome   map[Outcome]*RunningStat
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{byOutcome: make(map[Outcome]*RunningStat)}
}

// Record adds one finished query.
func (a *Aggregator) Record(outcome Outcome, elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.total++
	a.last = elapsed
	a.lastOutcome = outcome
	a.overall.add(ms)

	stat, ok := a.byOutcome[outcome]
	if !ok {
		stat = &RunningStat{}
		a.byOutcome[outcome] = stat
	}
	stat.add(ms)
	logging.LogEvent("[METRICS] query %s in %.0fms (mean %.0fms over %d)", outcome, ms, a.overall.Mean, a.total)
}

// Snapshot returns a copy of the collected metrics, outcomes sorted by name.
func (a *Aggregator) Snapshot() Snapshot {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	s := Snapshot{
		TotalQueries: a.total,
		Last:         a.last,
		LastOutcome:  a.lastOutcome,
		Overall:      a.overall,
	}
	for outcome, stat := range a.byOutcome {
		s.ByOutcome = append(s.ByOutcome, OutcomeStats{Outcome: outcome, Latency: *stat})
	}
	sort.Slice(s.ByOutcome, func(i, j int) bool { return s.ByOutcome[i].Outcome < s.ByOutcome[j].Outcome })
	return s
}
