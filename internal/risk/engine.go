package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/returns"
)

// =============================================================================
// Engine - pure calculator
// =============================================================================

// Engine risk engine
// ⭐ SSOT: pure calculation only. Sorting, validation and limit policy are
// assembled by the caller.
type Engine struct {
	confidence float64
}

// NewEngine creates an engine at the given VaR confidence.
// Values outside (0, 1) fall back to DefaultConfidence.
func NewEngine(confidence float64) *Engine {
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}
	return &Engine{confidence: confidence}
}

// Confidence returns the configured VaR confidence
func (e *Engine) Confidence() float64 {
	return e.confidence
}

// VaR historical VaR and CVaR at the engine confidence
func (e *Engine) VaR(tradeReturns []float64) VaRResult {
	return CalculateVaR(tradeReturns, e.confidence)
}

// ParametricVaR normal VaR from the sample mean and sd
func (e *Engine) ParametricVaR(tradeReturns []float64) VaRResult {
	return CalculateParametricVaR(Mean(tradeReturns), StdDev(tradeReturns), e.confidence)
}

// Assess computes drawdown and VaR for chronologically ordered trades
func (e *Engine) Assess(trades []contracts.Trade) contracts.RiskBlock {
	dd := Drawdown(trades)
	v := e.VaR(returns.Series(trades))

	return contracts.RiskBlock{
		CurrentDrawdown: dd.CurrentDrawdown,
		MaxDrawdown:     dd.MaxDrawdown,
		DailyVaR:        v.VaR,
		DailyCVaR:       v.CVaR,
		Confidence:      e.confidence,
	}
}

// =============================================================================
// Monte Carlo
// =============================================================================

var (
	ErrInsufficientData = errors.New("insufficient data for simulation")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// MonteCarlo bootstraps trade returns into simulated paths
func (e *Engine) MonteCarlo(ctx context.Context, tradeReturns []float64, config MonteCarloConfig) (*MonteCarloResult, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	// Fail-closed
	if len(tradeReturns) < config.MinSamples {
		return nil, fmt.Errorf("%w: got %d, need %d",
			ErrInsufficientData, len(tradeReturns), config.MinSamples)
	}

	return NewMonteCarloSimulator(config).Simulate(ctx, tradeReturns)
}

// ValidateConfig checks simulation settings
func ValidateConfig(config MonteCarloConfig) error {
	if config.NumSimulations <= 0 {
		return fmt.Errorf("%w: NumSimulations must be > 0", ErrInvalidConfig)
	}
	if config.Horizon <= 0 {
		return fmt.Errorf("%w: Horizon must be > 0", ErrInvalidConfig)
	}
	if config.MinSamples <= 0 {
		return fmt.Errorf("%w: MinSamples must be > 0", ErrInvalidConfig)
	}
	if len(config.ConfidenceLevels) == 0 {
		return fmt.Errorf("%w: ConfidenceLevels cannot be empty", ErrInvalidConfig)
	}
	for _, cl := range config.ConfidenceLevels {
		if cl <= 0 || cl >= 1 {
			return fmt.Errorf("%w: ConfidenceLevel must be between 0 and 1", ErrInvalidConfig)
		}
	}
	switch config.Method {
	case MethodHistoricalBootstrap, MethodParametricNormal:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, config.Method)
	}
	return nil
}

// =============================================================================
// Limit Check
// =============================================================================

// CheckLimits compares drawdown and VaR of ordered trades against limits
func (e *Engine) CheckLimits(trades []contracts.Trade, limits RiskLimits) *RiskCheckResult {
	result := &RiskCheckResult{
		Passed:     true,
		VaR:        e.VaR(returns.Series(trades)),
		Drawdown:   Drawdown(trades),
		Limits:     limits,
		Violations: make([]string, 0),
		CheckedAt:  time.Now().UTC(),
	}

	fail := func(format string, args ...interface{}) {
		result.Passed = false
		result.Violations = append(result.Violations, fmt.Sprintf(format, args...))
	}

	if limits.MaxVaR > 0 && result.VaR.VaR > limits.MaxVaR {
		fail("VaR %.4f exceeds limit %.4f", result.VaR.VaR, limits.MaxVaR)
	}
	if limits.MaxCVaR > 0 && result.VaR.CVaR > limits.MaxCVaR {
		fail("CVaR %.4f exceeds limit %.4f", result.VaR.CVaR, limits.MaxCVaR)
	}
	if limits.MaxDrawdown > 0 && result.Drawdown.MaxDrawdown > limits.MaxDrawdown {
		fail("max drawdown %.2f exceeds limit %.2f", result.Drawdown.MaxDrawdown, limits.MaxDrawdown)
	}
	if limits.MaxCurrentLoss > 0 && result.Drawdown.CurrentDrawdown > limits.MaxCurrentLoss {
		fail("current drawdown %.2f exceeds limit %.2f", result.Drawdown.CurrentDrawdown, limits.MaxCurrentLoss)
	}

	return result
}
