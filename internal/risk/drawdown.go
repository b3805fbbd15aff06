package risk

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/tradelens/internal/contracts"
)

// =============================================================================
// Equity Curve & Drawdown
// =============================================================================

// EquityCurve returns cumulative gross P&L after each trade, in input order.
// Callers supply trades sorted by exit time.
func EquityCurve(trades []contracts.Trade) []float64 {
	curve := equity(trades)
	out := make([]float64, len(curve))
	for i, v := range curve {
		out[i] = v.InexactFloat64()
	}
	return out
}

// equity accumulates P&L in decimal so long curves do not drift
func equity(trades []contracts.Trade) []decimal.Decimal {
	curve := make([]decimal.Decimal, len(trades))
	running := decimal.Zero
	for i, t := range trades {
		running = running.Add(decimal.NewFromFloat(t.GrossPnL()))
		curve[i] = running
	}
	return curve
}

// Drawdown walks the equity curve once and reports peak, max and current drawdown
func Drawdown(trades []contracts.Trade) DrawdownResult {
	result := DrawdownResult{MaxDrawdownAt: -1}
	if len(trades) == 0 {
		return result
	}

	peak := decimal.Zero
	maxDD := decimal.Zero
	current := decimal.Zero
	curve := equity(trades)

	for i, value := range curve {
		if value.GreaterThan(peak) {
			peak = value
		}
		current = peak.Sub(value)
		if current.GreaterThan(maxDD) {
			maxDD = current
			result.MaxDrawdownAt = i
		}
	}

	result.Peak = peak.InexactFloat64()
	result.FinalEquity = curve[len(curve)-1].InexactFloat64()
	result.MaxDrawdown = maxDD.InexactFloat64()
	result.CurrentDrawdown = current.InexactFloat64()
	return result
}

// MaxDrawdown largest peak-to-trough decline in currency, 0 when the curve never declines
func MaxDrawdown(trades []contracts.Trade) float64 {
	return Drawdown(trades).MaxDrawdown
}

// CurrentDrawdown distance of the final equity below the running peak
func CurrentDrawdown(trades []contracts.Trade) float64 {
	return Drawdown(trades).CurrentDrawdown
}
