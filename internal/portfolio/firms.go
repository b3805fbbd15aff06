package portfolio

import (
	"math"
	"sort"

	"github.com/wonny/tradelens/internal/contracts"
)

// =============================================================================
// Multi-firm view
// =============================================================================

// FirmComparison per-trader averages of one firm
type FirmComparison struct {
	FirmID            string           `json:"firmId"`
	Name              string           `json:"name"`
	Traders           int              `json:"traders"`
	WinRate           float64          `json:"winRate"`
	SharpeRatio       contracts.Metric `json:"sharpeRatio"`
	ProfitFactor      contracts.Metric `json:"profitFactor"`
	CapitalEfficiency float64          `json:"capitalEfficiency"` // mean profitable / total trades
	RiskScore         float64          `json:"riskScore"`         // mean (1 - drawdown share) × sharpe
}

// CompareFirms averages trader metrics per firm, preserving input order.
// Sentinel metrics average over the traders whose value is defined;
// a firm with no traders yields zeros and undefined ratios.
func CompareFirms(firms []contracts.FirmProfile) []FirmComparison {
	out := make([]FirmComparison, 0, len(firms))
	for _, f := range firms {
		c := FirmComparison{
			FirmID:       f.ID,
			Name:         f.Name,
			Traders:      len(f.Traders),
			SharpeRatio:  contracts.Undefined(),
			ProfitFactor: contracts.Undefined(),
		}
		if len(f.Traders) == 0 {
			out = append(out, c)
			continue
		}

		maxDD := 0.0
		for _, t := range f.Traders {
			maxDD = math.Max(maxDD, t.Metrics.MaxDrawdown)
		}

		n := float64(len(f.Traders))
		sharpes := make([]contracts.Metric, 0, len(f.Traders))
		pfs := make([]contracts.Metric, 0, len(f.Traders))
		for _, t := range f.Traders {
			m := t.Metrics
			c.WinRate += m.WinRate / n
			if m.TotalTrades > 0 {
				c.CapitalEfficiency += float64(m.ProfitableTrades) / float64(m.TotalTrades) / n
			}
			share := 0.0
			if maxDD > 0 {
				share = m.MaxDrawdown / maxDD
			}
			c.RiskScore += (1 - share) * m.SharpeRatio.Or(0) / n
			sharpes = append(sharpes, m.SharpeRatio)
			pfs = append(pfs, m.ProfitFactor)
		}
		c.SharpeRatio = meanMetric(sharpes)
		c.ProfitFactor = meanMetric(pfs)
		out = append(out, c)
	}
	return out
}

// meanMetric averages defined values; any infinite member makes the mean infinite
func meanMetric(ms []contracts.Metric) contracts.Metric {
	sum, n := 0.0, 0
	for _, m := range ms {
		switch m.State {
		case contracts.StateInfinite:
			return contracts.Infinite()
		case contracts.StateOK:
			sum += m.Value
			n++
		}
	}
	if n == 0 {
		return contracts.Undefined()
	}
	return contracts.Defined(sum / float64(n))
}

// Funnel trader counts per program stage
type Funnel struct {
	FirmID     string `json:"firmId"`
	Name       string `json:"name"`
	Evaluation int    `json:"evaluation"` // all traders
	Funded     int    `json:"funded"`     // profit factor > 1
	Profitable int    `json:"profitable"` // profit factor > 1.5 and sharpe > 1
}

// ProgramFunnel counts how many traders of a firm reach each stage
func ProgramFunnel(firm contracts.FirmProfile) Funnel {
	f := Funnel{FirmID: firm.ID, Name: firm.Name, Evaluation: len(firm.Traders)}
	for _, t := range firm.Traders {
		pf := t.Metrics.ProfitFactor
		if pf.State == contracts.StateInfinite || pf.Or(0) > 1 {
			f.Funded++
		}
		if t.Metrics.IsHealthy() {
			f.Profitable++
		}
	}
	return f
}

// DayRisk gross P&L turnover of one exit day
type DayRisk struct {
	Date  string  `json:"date"` // YYYY-MM-DD, UTC
	Value float64 `json:"value"`
}

// DailyRisk sums |P&L| per UTC exit day, ordered by date
func DailyRisk(trades []contracts.Trade) []DayRisk {
	byDay := make(map[string]float64)
	for _, t := range trades {
		byDay[t.ExitTime.UTC().Format("2006-01-02")] += math.Abs(t.GrossPnL())
	}

	out := make([]DayRisk, 0, len(byDay))
	for day, v := range byDay {
		out = append(out, DayRisk{Date: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
