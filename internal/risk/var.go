package risk

import (
	"math"
	"sort"
)

// =============================================================================
// Historical VaR
// =============================================================================

// DailyVaR returns the historical value-at-risk of a return sequence.
// ⭐ SSOT: ascending sort of a copy, index = floor(n * (1 - confidence)),
// VaR = -sorted[index]. n = 0 yields 0.
func DailyVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := sortedCopy(returns)
	return -sorted[tailIndex(len(sorted), confidence)]
}

// CalculateVaR returns VaR and CVaR at one confidence level
func CalculateVaR(returns []float64, confidence float64) VaRResult {
	if len(returns) == 0 {
		return VaRResult{Confidence: confidence}
	}

	sorted := sortedCopy(returns)
	idx := tailIndex(len(sorted), confidence)

	return VaRResult{
		Confidence: confidence,
		VaR:        -sorted[idx],
		CVaR:       CalculateCVaR(sorted, idx),
	}
}

// CalculateCVaR returns the negated mean of sorted[0..varIdx].
// sorted must be ascending.
func CalculateCVaR(sorted []float64, varIdx int) float64 {
	if len(sorted) == 0 || varIdx < 0 {
		return 0
	}
	if varIdx >= len(sorted) {
		varIdx = len(sorted) - 1
	}

	var sum float64
	for i := 0; i <= varIdx; i++ {
		sum += sorted[i]
	}
	return -sum / float64(varIdx+1)
}

// tailIndex floors n*(1-confidence) into [0, n-1]
func tailIndex(n int, confidence float64) int {
	idx := int(math.Floor(float64(n) * (1.0 - confidence)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// =============================================================================
// Parametric VaR (normal)
// =============================================================================

// CalculateParametricVaR VaR under a normal assumption.
// VaR = z * sd - mean, CVaR = sd * phi(z) / (1 - confidence) - mean
func CalculateParametricVaR(mean, stdDev, confidence float64) VaRResult {
	if confidence <= 0 || confidence >= 1 {
		return VaRResult{Confidence: confidence}
	}

	z := NormInv(confidence)
	return VaRResult{
		Confidence: confidence,
		VaR:        z*stdDev - mean,
		CVaR:       stdDev*NormPDF(z)/(1-confidence) - mean,
	}
}

// =============================================================================
// Statistics
// =============================================================================

// NormInv inverse standard normal CDF (Acklam's rational approximation)
func NormInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}

	a := [6]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	b := [5]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	c := [6]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	d := [4]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= pHigh:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}

// NormPDF standard normal density
func NormPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// Mean arithmetic mean, 0 for empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev sample standard deviation (n-1), 0 when n < 2
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// Degenerate reports whether a dispersion measure is indistinguishable from zero
// for the given series: every value equals the first, or sd is within
// rounding of the mean's magnitude.
func Degenerate(values []float64, sd float64) bool {
	if len(values) < 2 {
		return true
	}
	if sd <= 1e-12*math.Max(1, math.Abs(Mean(values))) {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Percentile linear-interpolated percentile of an ascending slice, p in [0, 100]
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
