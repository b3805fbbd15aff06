package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/tradelens/internal/behavior"
	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/performance"
	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/internal/risk"
	"github.com/wonny/tradelens/internal/validation"
	"github.com/wonny/tradelens/pkg/logger"
)

// ErrInvalidScope is returned for a scope outside INDIVIDUAL, GROUP, FIRM
var ErrInvalidScope = errors.New("invalid analysis scope")

// Analyzer is the single entry point for trade analytics
// ⭐ SSOT: validate → sort by exit → returns → performance, risk, behavior → envelope
type Analyzer struct {
	opts   Options
	risk   *risk.Engine
	logger *logger.Logger
	now    func() time.Time
}

// Report is an AnalyticsResult plus the records that were rejected
type Report struct {
	Result   contracts.AnalyticsResult `json:"result"`
	Failures map[int][]string          `json:"failures"` // 0-based input index → reasons
	Accepted int                       `json:"accepted"`
	Rejected int                       `json:"rejected"`
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(opts Options, log *logger.Logger) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Analyzer{
		opts:   opts,
		risk:   risk.NewEngine(opts.Confidence),
		logger: log.WithComponent("analytics"),
		now:    time.Now,
	}, nil
}

// Options returns the parameters the analyzer runs with
func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze validates raw records and analyzes the valid ones.
// Invalid records never reach the engines; they are reported in Failures.
func (a *Analyzer) Analyze(candidates []validation.CandidateTrade, scope contracts.Scope) (*Report, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	valid, failures := validation.Partition(candidates)
	if len(failures) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"rejected": len(failures),
			"total":    len(candidates),
		}).Warn("Rejected invalid trade records")
	}

	result, err := a.AnalyzeTrades(valid, scope)
	if err != nil {
		return nil, err
	}

	return &Report{
		Result:   *result,
		Failures: failures,
		Accepted: len(valid),
		Rejected: len(failures),
	}, nil
}

// AnalyzeTrades analyzes already-validated trades.
// The caller's slice is not modified.
func (a *Analyzer) AnalyzeTrades(trades []contracts.Trade, scope contracts.Scope) (*contracts.AnalyticsResult, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	sorted := returns.SortByExit(trades)
	perfOpts := performance.Options{
		Annualization: a.opts.Annualization,
		RiskFreeRate:  a.opts.RiskFreeRate,
	}

	result := &contracts.AnalyticsResult{
		ID:        uuid.NewString(),
		Scope:     scope,
		Timestamp: a.now().UTC(),
		Metrics: contracts.MetricsEnvelope{
			Performance: performance.Block(sorted, perfOpts),
			Risk:        a.risk.Assess(sorted),
			Behavior:    behavior.Summarize(sorted),
		},
	}

	a.logger.WithFields(map[string]interface{}{
		"scope":        scope,
		"trades":       len(sorted),
		"win_rate":     result.Metrics.Performance.WinRate,
		"sharpe":       result.Metrics.Performance.SharpeRatio.String(),
		"max_drawdown": result.Metrics.Risk.MaxDrawdown,
	}).Debug("Analysis completed")

	return result, nil
}

// TraderMetrics aggregates trades in exit order with the analyzer options
func (a *Analyzer) TraderMetrics(trades []contracts.Trade) contracts.TraderMetrics {
	return performance.Calculate(returns.SortByExit(trades), performance.Options{
		Annualization: a.opts.Annualization,
		RiskFreeRate:  a.opts.RiskFreeRate,
	})
}
