package portfolio

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/correlation"
	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/internal/risk"
)

// =============================================================================
// Group view
// =============================================================================

// SymbolExposure notional held per symbol at exit prices
type SymbolExposure struct {
	Symbol string  `json:"symbol"`
	Long   float64 `json:"long"`
	Short  float64 `json:"short"`
	Net    float64 `json:"net"` // long - short
}

// Exposure sums size × exit price per symbol across all traders.
// Result is ordered by symbol.
func Exposure(traders []contracts.TraderProfile) []SymbolExposure {
	type acc struct{ long, short decimal.Decimal }
	bySymbol := make(map[string]*acc)

	for _, tr := range traders {
		for _, t := range tr.Trades {
			a, ok := bySymbol[t.Symbol]
			if !ok {
				a = &acc{}
				bySymbol[t.Symbol] = a
			}
			notional := decimal.NewFromFloat(t.Size).Mul(decimal.NewFromFloat(t.ExitPrice))
			if t.Direction == contracts.Short {
				a.short = a.short.Add(notional)
			} else {
				a.long = a.long.Add(notional)
			}
		}
	}

	out := make([]SymbolExposure, 0, len(bySymbol))
	for sym, a := range bySymbol {
		out = append(out, SymbolExposure{
			Symbol: sym,
			Long:   a.long.InexactFloat64(),
			Short:  a.short.InexactFloat64(),
			Net:    a.long.Sub(a.short).InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// NetExposure sums Net over all symbols
func NetExposure(exposures []SymbolExposure) float64 {
	total := 0.0
	for _, e := range exposures {
		total += e.Net
	}
	return total
}

// TraderAllocation capital deployed by one trader and how well it was used
type TraderAllocation struct {
	TraderID      string           `json:"traderId"`
	Capital       float64          `json:"capital"`       // Σ |size × entry|
	DrawdownShare float64          `json:"drawdownShare"` // drawdown / largest drawdown in the group
	Efficiency    contracts.Metric `json:"efficiency"`    // profit factor × (1 - drawdownShare)
}

// Allocation capital view of a group
type Allocation struct {
	TotalCapital float64            `json:"totalCapital"`
	Traders      []TraderAllocation `json:"traders"`
}

// CapitalAllocation computes deployed capital and efficiency per trader.
// Drawdowns are normalized by the largest drawdown in the group so that
// currency drawdowns of different traders are comparable.
func CapitalAllocation(traders []contracts.TraderProfile) *Allocation {
	maxDD := 0.0
	for _, tr := range traders {
		maxDD = math.Max(maxDD, tr.Metrics.MaxDrawdown)
	}

	total := decimal.Zero
	out := &Allocation{Traders: make([]TraderAllocation, 0, len(traders))}
	for _, tr := range traders {
		capital := decimal.Zero
		for _, t := range tr.Trades {
			capital = capital.Add(decimal.NewFromFloat(t.Size).Mul(decimal.NewFromFloat(t.EntryPrice)).Abs())
		}
		total = total.Add(capital)

		share := 0.0
		if maxDD > 0 {
			share = tr.Metrics.MaxDrawdown / maxDD
		}

		out.Traders = append(out.Traders, TraderAllocation{
			TraderID:      tr.ID,
			Capital:       capital.InexactFloat64(),
			DrawdownShare: share,
			Efficiency:    scale(tr.Metrics.ProfitFactor, 1-share),
		})
	}
	out.TotalCapital = total.InexactFloat64()
	return out
}

// scale multiplies a metric by k, keeping sentinels.
// An infinite metric scaled by 0 is undefined.
func scale(m contracts.Metric, k float64) contracts.Metric {
	switch m.State {
	case contracts.StateOK:
		return contracts.Defined(m.Value * k)
	case contracts.StateInfinite:
		if k > 0 {
			return contracts.Infinite()
		}
	}
	return contracts.Undefined()
}

// CorrelationMatrix correlates the per-trade return series of every trader
func CorrelationMatrix(traders []contracts.TraderProfile) *correlation.CorrelationMatrix {
	series := make(map[string][]float64, len(traders))
	for _, tr := range traders {
		series[tr.ID] = returns.Series(returns.SortByExit(tr.Trades))
	}
	return correlation.Matrix(series)
}

// GroupVaR historical VaR of the pooled returns of all traders
func GroupVaR(traders []contracts.TraderProfile, confidence float64) risk.VaRResult {
	all := make([]contracts.Trade, 0)
	for _, tr := range traders {
		all = append(all, tr.Trades...)
	}
	return risk.CalculateVaR(returns.Series(returns.SortByExit(all)), confidence)
}
