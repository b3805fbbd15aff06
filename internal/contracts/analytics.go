package contracts

import "time"

// Scope is the breadth of an analysis request
type Scope string

const (
	ScopeIndividual Scope = "INDIVIDUAL"
	ScopeGroup      Scope = "GROUP"
	ScopeFirm       Scope = "FIRM"
)

// Valid reports whether s is a known scope
func (s Scope) Valid() bool {
	switch s {
	case ScopeIndividual, ScopeGroup, ScopeFirm:
		return true
	}
	return false
}

// TraderMetrics aggregates a trade collection.
// MaxDrawdown is in currency units (peak P&L minus current P&L).
type TraderMetrics struct {
	WinRate          float64 `json:"winRate"` // 0.0 ~ 1.0
	ProfitFactor     Metric  `json:"profitFactor"`
	SharpeRatio      Metric  `json:"sharpeRatio"` // annualized
	MaxDrawdown      float64 `json:"maxDrawdown"`
	AverageWin       Metric  `json:"averageWin"`
	AverageLoss      Metric  `json:"averageLoss"` // signed, <= 0
	TotalTrades      int     `json:"totalTrades"`
	ProfitableTrades int     `json:"profitableTrades"`
}

// IsHealthy mirrors the funnel rule used for program comparisons
func (m TraderMetrics) IsHealthy() bool {
	pf := m.ProfitFactor.State == StateInfinite || m.ProfitFactor.Or(0) > 1.5
	return pf && m.SharpeRatio.Or(0) > 1.0
}

// PerformanceBlock is the performance part of an AnalyticsResult
type PerformanceBlock struct {
	TotalPnL         float64 `json:"totalPnL"` // Σ gross P&L
	NetPnL           float64 `json:"netPnL"`   // Σ gross P&L - fees
	WinRate          float64 `json:"winRate"`
	SharpeRatio      Metric  `json:"sharpeRatio"`
	ProfitFactor     Metric  `json:"profitFactor"`
	AverageWin       Metric  `json:"averageWin"`
	AverageLoss      Metric  `json:"averageLoss"`
	TotalTrades      int     `json:"totalTrades"`
	ProfitableTrades int     `json:"profitableTrades"`
}

// RiskBlock is the risk part of an AnalyticsResult
type RiskBlock struct {
	CurrentDrawdown float64 `json:"currentDrawdown"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	DailyVaR        float64 `json:"dailyVar"`
	DailyCVaR       float64 `json:"dailyCvar"`
	Confidence      float64 `json:"confidence"`
}

// BehaviorBlock is the behavior part of an AnalyticsResult
type BehaviorBlock struct {
	AverageHoldingTime float64 `json:"averageHoldingTime"` // hours
	TradeFrequency     float64 `json:"tradeFrequency"`     // trades per day
	ConsistencyScore   float64 `json:"consistencyScore"`   // 0.0 ~ 1.0
}

// MetricsEnvelope groups the result blocks
type MetricsEnvelope struct {
	Performance PerformanceBlock `json:"performance"`
	Risk        RiskBlock        `json:"risk"`
	Behavior    BehaviorBlock    `json:"behavior"`
}

// AnalyticsResult is the single output of the analytics facade.
// ⭐ SSOT: one per invocation, never mutated after construction.
type AnalyticsResult struct {
	ID        string          `json:"id"`
	Scope     Scope           `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Metrics   MetricsEnvelope `json:"metrics"`
}

// IsEmpty reports whether the result was computed over no trades
func (r *AnalyticsResult) IsEmpty() bool {
	return r.Metrics.Performance.TotalTrades == 0
}
