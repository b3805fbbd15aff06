package returns

import (
	"sort"

	"github.com/wonny/tradelens/internal/contracts"
)

// Series returns the per-trade fractional return in input order.
// ⭐ SSOT: ((exit - entry) / entry) * sign, one element per trade.
func Series(trades []contracts.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.Return()
	}
	return out
}

// PnLSeries returns the gross currency P&L per trade in input order
func PnLSeries(trades []contracts.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.GrossPnL()
	}
	return out
}

// SortByExit returns a copy of trades ordered by exit time.
// Ties keep their input order. The input slice is not modified.
func SortByExit(trades []contracts.Trade) []contracts.Trade {
	sorted := make([]contracts.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExitTime.Before(sorted[j].ExitTime)
	})
	return sorted
}
