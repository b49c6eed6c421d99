// internal/metrics/types.go
package metrics

import "time"

// Outcome classifies how a query ended.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeClarification      Outcome = "clarification"
	OutcomeUnauthorized       Outcome = "unauthorized"
	OutcomeServiceUnavailable Outcome = "service_unavailable"
	OutcomeBadRequest         Outcome = "bad_request"
	OutcomeServerError        Outcome = "server_error"
	OutcomeNetwork            Outcome = "network"
)

// OutcomeStats is the latency summary for one outcome.
type OutcomeStats struct {
	Outcome Outcome     `json:"outcome"`
	Latency RunningStat `json:"latency_ms"`
}

// Snapshot is a point-in-time copy of the collected query metrics.
type Snapshot struct {
	TotalQueries int64          `json:"total_queries"`
	Last         time.Duration  `json:"-"`
	LastOutcome  Outcome        `json:"last_outcome,omitempty"`
	Overall      RunningStat    `json:"overall_ms"`
	ByOutcome    []OutcomeStats `json:"by_outcome"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// add folds value into the statistic using Welford's online algorithm.
func (rs *RunningStat) add(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min, rs.Max = value, value
	} else {
		rs.Min = min(rs.Min, value)
		rs.Max = max(rs.Max, value)
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	rs.M2 += delta * (value - rs.Mean)
}

// Variance returns the sample variance, or 0 with fewer than two values.
func (rs RunningStat) Variance() float64 {
	if rs.Count < 2 {
		return 0
	}
	return rs.M2 / float64(rs.Count-1)
}
