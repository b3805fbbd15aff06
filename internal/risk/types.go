package risk

import "time"

// =============================================================================
// Sign Convention
// =============================================================================

// VaRConvention VaR sign convention
// ⭐ SSOT: losses are positive (VaR=0.05 means a 5% loss at the given confidence).
// A distribution with no losing tail yields a negative VaR; it is not clamped.
const VaRConvention = "loss_positive"

// DefaultConfidence default VaR confidence level
const DefaultConfidence = 0.95

// =============================================================================
// VaR/CVaR Types
// =============================================================================

// VaRResult VaR calculation result
type VaRResult struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var"`  // loss, positive
	CVaR       float64 `json:"cvar"` // mean of the tail at or below VaR, loss positive
}

// =============================================================================
// Drawdown Types
// =============================================================================

// DrawdownResult summarizes an equity curve.
// ⭐ SSOT: currency convention. Peak starts at 0 (flat before the first trade)
// and drawdown = peak - equity.
type DrawdownResult struct {
	Peak            float64 `json:"peak"`
	FinalEquity     float64 `json:"finalEquity"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	CurrentDrawdown float64 `json:"currentDrawdown"`
	MaxDrawdownAt   int     `json:"maxDrawdownAt"` // trade index of the trough, -1 when none
}

// =============================================================================
// Monte Carlo Types
// =============================================================================

// MonteCarloMethod resampling method
type MonteCarloMethod string

const (
	MethodHistoricalBootstrap MonteCarloMethod = "historical_bootstrap" // resample trade returns
	MethodParametricNormal    MonteCarloMethod = "parametric_normal"    // draw from N(mean, sd)
)

// MonteCarloConfig simulation settings.
// ⭐ SSOT: recorded in the result so a run can be reproduced.
type MonteCarloConfig struct {
	NumSimulations   int              `json:"numSimulations"`
	Horizon          int              `json:"horizon"` // trades per simulated path
	ConfidenceLevels []float64        `json:"confidenceLevels"`
	Method           MonteCarloMethod `json:"method"`
	Seed             int64            `json:"seed"`       // 0 = time-seeded
	MinSamples       int              `json:"minSamples"` // fail-closed below this
}

// DefaultMonteCarloConfig default simulation settings
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		NumSimulations:   10000,
		Horizon:          20,
		ConfidenceLevels: []float64{0.95, 0.99},
		Method:           MethodHistoricalBootstrap,
		Seed:             0,
		MinSamples:       10,
	}
}

// MonteCarloResult simulated distribution of compounded path returns
type MonteCarloResult struct {
	RunID            string           `json:"runId"`
	RunDate          time.Time        `json:"runDate"`
	Config           MonteCarloConfig `json:"config"`
	InputSampleCount int              `json:"inputSampleCount"`
	MeanReturn       float64          `json:"meanReturn"`
	StdDev           float64          `json:"stdDev"`
	VaR              []VaRResult      `json:"var"` // one per confidence level
	ProbabilityLoss  float64          `json:"probabilityLoss"`
	Percentiles      map[int]float64  `json:"percentiles"`
}

// =============================================================================
// Risk Check Types
// =============================================================================

// RiskLimits thresholds for CheckLimits. Zero disables a limit.
type RiskLimits struct {
	MaxVaR         float64 `json:"maxVar"`         // fractional, per trade
	MaxCVaR        float64 `json:"maxCvar"`        // fractional, per trade
	MaxDrawdown    float64 `json:"maxDrawdown"`    // currency
	MaxCurrentLoss float64 `json:"maxCurrentLoss"` // currency, current drawdown
}

// DefaultRiskLimits default limits
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxVaR:  0.05,
		MaxCVaR: 0.07,
	}
}

// RiskCheckResult outcome of CheckLimits
type RiskCheckResult struct {
	Passed     bool           `json:"passed"`
	VaR        VaRResult      `json:"var"`
	Drawdown   DrawdownResult `json:"drawdown"`
	Limits     RiskLimits     `json:"limits"`
	Violations []string       `json:"violations"`
	CheckedAt  time.Time      `json:"checkedAt"`
}
