package analytics

import (
	"errors"
	"fmt"

	"github.com/wonny/tradelens/pkg/config"
)

// ErrInvalidOptions is wrapped by every Options.Validate failure
var ErrInvalidOptions = errors.New("invalid analytics options")

// Options engine parameters, passed explicitly on every analysis
type Options struct {
	Confidence    float64 `json:"confidence"`    // VaR confidence, (0, 1)
	Annualization float64 `json:"annualization"` // Sharpe periods per year
	RiskFreeRate  float64 `json:"riskFreeRate"`  // per-period offset
}

// DefaultOptions 0.95 confidence, 252 periods, zero risk-free rate
func DefaultOptions() Options {
	return Options{
		Confidence:    0.95,
		Annualization: 252,
		RiskFreeRate:  0,
	}
}

// OptionsFromConfig maps the analytics section of the app config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Confidence:    cfg.Analytics.VaRConfidence,
		Annualization: cfg.Analytics.SharpeAnnualization,
		RiskFreeRate:  cfg.Analytics.RiskFreeRate,
	}
}

// Validate rejects out-of-range parameters
func (o Options) Validate() error {
	if o.Confidence <= 0 || o.Confidence >= 1 {
		return fmt.Errorf("%w: confidence must be in (0, 1), got %v", ErrInvalidOptions, o.Confidence)
	}
	if o.Annualization <= 0 {
		return fmt.Errorf("%w: annualization must be > 0, got %v", ErrInvalidOptions, o.Annualization)
	}
	return nil
}
