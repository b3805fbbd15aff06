package correlation

import (
	"math"
	"sort"
)

// Pearson returns the Pearson correlation of x and y over their common prefix.
// ⭐ SSOT: fewer than 2 paired points or zero variance on either side yields 0.
// The result is clamped to [-1, 1].
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if flat(x[:n], varX, meanX) || flat(y[:n], varY, meanY) {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// flat true when a series has no variance beyond rounding noise
func flat(values []float64, sumSq, mean float64) bool {
	tol := 1e-12 * math.Max(1, math.Abs(mean))
	if sumSq <= tol*tol*float64(len(values)) {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// CorrelationMatrix symmetric correlation matrix over named series
type CorrelationMatrix struct {
	Keys   []string    `json:"keys"`
	Values [][]float64 `json:"values"`
}

// Matrix correlates every pair of series. Keys are sorted.
// The diagonal is computed like any other cell, so a zero-variance
// series has 0 on its diagonal.
func Matrix(series map[string][]float64) *CorrelationMatrix {
	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([][]float64, len(keys))
	for i := range values {
		values[i] = make([]float64, len(keys))
	}

	for i, a := range keys {
		for j := i; j < len(keys); j++ {
			r := Pearson(series[a], series[keys[j]])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &CorrelationMatrix{Keys: keys, Values: values}
}

// Get returns the correlation of two keys
func (m *CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m *CorrelationMatrix) index(key string) int {
	for i, k := range m.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Pair one off-diagonal cell
type Pair struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Correlation float64 `json:"correlation"`
}

// HighlyCorrelated pairs whose |r| is at least threshold, strongest first
func (m *CorrelationMatrix) HighlyCorrelated(threshold float64) []Pair {
	pairs := make([]Pair, 0)
	for i := range m.Keys {
		for j := i + 1; j < len(m.Keys); j++ {
			if math.Abs(m.Values[i][j]) >= threshold {
				pairs = append(pairs, Pair{A: m.Keys[i], B: m.Keys[j], Correlation: m.Values[i][j]})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	return pairs
}
