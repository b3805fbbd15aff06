package behavior

import (
	"time"

	"github.com/wonny/tradelens/internal/contracts"
)

// =============================================================================
// Summary
// =============================================================================

// Summarize computes the behavior block of an AnalyticsResult.
// Empty input yields zeros.
func Summarize(trades []contracts.Trade) contracts.BehaviorBlock {
	if len(trades) == 0 {
		return contracts.BehaviorBlock{}
	}

	return contracts.BehaviorBlock{
		AverageHoldingTime: AverageHoldingHours(trades),
		TradeFrequency:     TradesPerDay(trades),
		ConsistencyScore:   Consistency(trades),
	}
}

// AverageHoldingHours mean exit - entry in hours
func AverageHoldingHours(trades []contracts.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range trades {
		total += t.HoldingPeriod()
	}
	return total.Hours() / float64(len(trades))
}

// TradesPerDay trades divided by the days between first entry and last exit.
// Spans shorter than a day count as one day.
func TradesPerDay(trades []contracts.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	first := trades[0].EntryTime
	last := trades[0].ExitTime
	for _, t := range trades[1:] {
		if t.EntryTime.Before(first) {
			first = t.EntryTime
		}
		if t.ExitTime.After(last) {
			last = t.ExitTime
		}
	}

	days := last.Sub(first).Hours() / 24
	if days < 1 {
		days = 1
	}
	return float64(len(trades)) / days
}

// Consistency share of trading days (by UTC exit date) with positive gross P&L
func Consistency(trades []contracts.Trade) float64 {
	daily := DailyPnL(trades)
	if len(daily) == 0 {
		return 0
	}

	profitable := 0
	for _, pnl := range daily {
		if pnl > 0 {
			profitable++
		}
	}
	return float64(profitable) / float64(len(daily))
}

// DailyPnL gross P&L keyed by UTC exit date (YYYY-MM-DD)
func DailyPnL(trades []contracts.Trade) map[string]float64 {
	daily := make(map[string]float64)
	for _, t := range trades {
		daily[t.ExitTime.UTC().Format("2006-01-02")] += t.GrossPnL()
	}
	return daily
}
