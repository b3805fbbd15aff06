package performance

import (
	"math"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/internal/risk"
)

// Options parameters for ratio metrics
type Options struct {
	Annualization float64 // periods per year for Sharpe/Sortino, e.g. 252
	RiskFreeRate  float64 // per-period offset subtracted from each return
}

// DefaultOptions 252 periods, zero risk-free rate
func DefaultOptions() Options {
	return Options{Annualization: 252, RiskFreeRate: 0}
}

// =============================================================================
// Trade Metrics
// =============================================================================

// WinRate fraction of trades with positive price move, 0 for empty input
func WinRate(trades []contracts.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	return float64(countWins(trades)) / float64(len(trades))
}

func countWins(trades []contracts.Trade) int {
	wins := 0
	for _, t := range trades {
		if t.IsWin() {
			wins++
		}
	}
	return wins
}

// ProfitFactor gross profit / |gross loss|.
// ⭐ SSOT: no losses with profit is infinite; no profit and no loss is undefined.
func ProfitFactor(trades []contracts.Trade) contracts.Metric {
	var grossProfit, grossLoss float64
	for _, t := range trades {
		pnl := t.GrossPnL()
		if pnl > 0 {
			grossProfit += pnl
		} else if pnl < 0 {
			grossLoss += math.Abs(pnl)
		}
	}
	return contracts.Ratio(grossProfit, grossLoss)
}

// AverageWin mean gross P&L of winning trades
func AverageWin(trades []contracts.Trade) contracts.Metric {
	var sum float64
	var count int
	for _, t := range trades {
		if t.IsWin() {
			sum += t.GrossPnL()
			count++
		}
	}
	if count == 0 {
		return contracts.Undefined()
	}
	return contracts.Defined(sum / float64(count))
}

// AverageLoss signed mean gross P&L of losing trades (<= 0)
func AverageLoss(trades []contracts.Trade) contracts.Metric {
	var sum float64
	var count int
	for _, t := range trades {
		if t.IsLoss() {
			sum += t.GrossPnL()
			count++
		}
	}
	if count == 0 {
		return contracts.Undefined()
	}
	return contracts.Defined(sum / float64(count))
}

// Expectancy mean gross P&L per trade, undefined for empty input
func Expectancy(trades []contracts.Trade) contracts.Metric {
	if len(trades) == 0 {
		return contracts.Undefined()
	}
	return contracts.Defined(TotalPnL(trades) / float64(len(trades)))
}

// TotalPnL sum of gross P&L
func TotalPnL(trades []contracts.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.GrossPnL()
	}
	return sum
}

// NetPnL sum of gross P&L less fees
func NetPnL(trades []contracts.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.NetPnL()
	}
	return sum
}

// Streaks longest runs of consecutive wins and losses in input order.
// A breakeven trade ends both runs.
func Streaks(trades []contracts.Trade) (maxWins, maxLosses int) {
	var wins, losses int
	for _, t := range trades {
		switch {
		case t.IsWin():
			wins++
			losses = 0
		case t.IsLoss():
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		if wins > maxWins {
			maxWins = wins
		}
		if losses > maxLosses {
			maxLosses = losses
		}
	}
	return maxWins, maxLosses
}

// =============================================================================
// Return Ratios
// =============================================================================

// SharpeRatio mean excess return over sample sd, scaled by sqrt(annualization).
// Undefined when n < 2 or the excess returns are constant.
func SharpeRatio(rets []float64, annualization, riskFree float64) contracts.Metric {
	if len(rets) < 2 {
		return contracts.Undefined()
	}

	excess := make([]float64, len(rets))
	for i, r := range rets {
		excess[i] = r - riskFree
	}

	sd := risk.StdDev(excess)
	if risk.Degenerate(excess, sd) {
		return contracts.Undefined()
	}
	return contracts.Defined(risk.Mean(excess) / sd * math.Sqrt(annualization))
}

// SortinoRatio mean excess return over downside deviation, scaled by sqrt(annualization).
// Downside deviation is the root mean square of negative excess returns over all n.
func SortinoRatio(rets []float64, annualization, riskFree float64) contracts.Metric {
	if len(rets) < 2 {
		return contracts.Undefined()
	}

	var sumSq float64
	excess := make([]float64, len(rets))
	for i, r := range rets {
		excess[i] = r - riskFree
		if excess[i] < 0 {
			sumSq += excess[i] * excess[i]
		}
	}

	mean := risk.Mean(excess)
	downside := math.Sqrt(sumSq / float64(len(rets)))
	if downside <= 1e-12*math.Max(1, math.Abs(mean)) {
		if mean > 0 {
			return contracts.Infinite()
		}
		return contracts.Undefined()
	}
	return contracts.Defined(mean / downside * math.Sqrt(annualization))
}

// =============================================================================
// Aggregate
// =============================================================================

// Calculate aggregates trades into TraderMetrics.
// Trades must be sorted by exit time; drawdown depends on order.
func Calculate(trades []contracts.Trade, opts Options) contracts.TraderMetrics {
	return contracts.TraderMetrics{
		WinRate:          WinRate(trades),
		ProfitFactor:     ProfitFactor(trades),
		SharpeRatio:      SharpeRatio(returns.Series(trades), opts.Annualization, opts.RiskFreeRate),
		MaxDrawdown:      risk.MaxDrawdown(trades),
		AverageWin:       AverageWin(trades),
		AverageLoss:      AverageLoss(trades),
		TotalTrades:      len(trades),
		ProfitableTrades: countWins(trades),
	}
}

// Block builds the performance section of an AnalyticsResult
func Block(trades []contracts.Trade, opts Options) contracts.PerformanceBlock {
	m := Calculate(trades, opts)
	return contracts.PerformanceBlock{
		TotalPnL:         TotalPnL(trades),
		NetPnL:           NetPnL(trades),
		WinRate:          m.WinRate,
		SharpeRatio:      m.SharpeRatio,
		ProfitFactor:     m.ProfitFactor,
		AverageWin:       m.AverageWin,
		AverageLoss:      m.AverageLoss,
		TotalTrades:      m.TotalTrades,
		ProfitableTrades: m.ProfitableTrades,
	}
}
