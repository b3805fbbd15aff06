package contracts

import (
	"encoding/json"
	"fmt"
	"math"
)

// MetricState tags whether a metric value is meaningful
type MetricState string

const (
	StateOK        MetricState = "ok"
	StateUndefined MetricState = "undefined" // 0/0, n < 2, zero variance
	StateInfinite  MetricState = "infinite"  // x/0 with x > 0
)

// Metric is a ratio-like figure that may be degenerate.
// ⭐ SSOT: degenerate arithmetic resolves to a tagged sentinel, never NaN/Inf.
// Value is always finite; it is 0 unless State is ok.
type Metric struct {
	Value float64     `json:"value"`
	State MetricState `json:"state"`
}

// Defined returns an ok metric. Non-finite input collapses to Undefined.
func Defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Metric{Value: v, State: StateOK}
}

// Undefined returns the undefined sentinel
func Undefined() Metric {
	return Metric{State: StateUndefined}
}

// Infinite returns the infinite sentinel
func Infinite() Metric {
	return Metric{State: StateInfinite}
}

// Ratio divides num by den and tags the degenerate cases
func Ratio(num, den float64) Metric {
	if den == 0 {
		if num > 0 {
			return Infinite()
		}
		return Undefined()
	}
	return Defined(num / den)
}

// IsOK reports whether the value is meaningful
func (m Metric) IsOK() bool {
	return m.State == StateOK
}

// Or returns the value when ok, otherwise fallback
func (m Metric) Or(fallback float64) float64 {
	if m.IsOK() {
		return m.Value
	}
	return fallback
}

// String formats the metric for terminal output
func (m Metric) String() string {
	switch m.State {
	case StateOK:
		return fmt.Sprintf("%.4f", m.Value)
	case StateInfinite:
		return "inf"
	default:
		return "n/a"
	}
}

// UnmarshalJSON accepts the tagged object form. An empty state means ok.
func (m *Metric) UnmarshalJSON(data []byte) error {
	type raw Metric
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decode metric: %w", err)
	}
	if r.State == "" {
		r.State = StateOK
	}
	switch r.State {
	case StateOK, StateUndefined, StateInfinite:
	default:
		return fmt.Errorf("decode metric: unknown state %q", r.State)
	}
	*m = Metric(r)
	return nil
}
