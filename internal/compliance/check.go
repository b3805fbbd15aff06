package compliance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/tradelens/internal/behavior"
	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/performance"
	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/internal/risk"
)

// Severity of a rule violation
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Violation codes
const (
	CodeDrawdown       = "DD_VIOLATION"
	CodeDailyLoss      = "DAILY_LOSS_VIOLATION"
	CodePositionSize   = "SIZE_VIOLATION"
	CodeTradingHours   = "HOURS_VIOLATION"
	CodeWinRate        = "WIN_RATE_VIOLATION"
	CodeProfitableDays = "PROFITABLE_DAYS_VIOLATION"
)

// Violation one broken firm rule
type Violation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	TradeIDs []string `json:"tradeIds,omitempty"`
}

// LimitUsage how close a trader is to a currency or size limit
type LimitUsage struct {
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Limit   float64 `json:"limit"`
	Usage   float64 `json:"usage"`  // current / limit
	Status  string  `json:"status"` // ok, warning (> 0.6), critical (> 0.8)
}

// Report result of a compliance check
type Report struct {
	FirmID     string       `json:"firmId"`
	Passed     bool         `json:"passed"`
	Violations []Violation  `json:"violations"`
	Limits     []LimitUsage `json:"limits"`
	CheckedAt  time.Time    `json:"checkedAt"`
}

// Check evaluates trades against the firm's rules.
// Trades are ordered by exit time internally; the input is not modified.
func Check(cfg *FirmConfig, trades []contracts.Trade) (*Report, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid firm config: %w", err)
	}

	sorted := returns.SortByExit(trades)
	p := cfg.RiskParameters
	report := &Report{
		FirmID:     cfg.ID,
		Violations: make([]Violation, 0),
		Limits:     make([]LimitUsage, 0, 3),
		CheckedAt:  time.Now().UTC(),
	}

	if len(sorted) == 0 {
		report.Passed = true
		return report, nil
	}

	dd := risk.MaxDrawdown(sorted)
	daily := behavior.DailyPnL(sorted)
	worstDay := worstDailyLoss(daily)
	largest := largestPosition(sorted)

	// Drawdown
	if p.MaxDrawdown > 0 {
		report.Limits = append(report.Limits, usage("Drawdown", dd, p.MaxDrawdown))
		if dd > p.MaxDrawdown {
			report.Violations = append(report.Violations, Violation{
				Code:     CodeDrawdown,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("Maximum drawdown %.2f exceeded limit %.2f", dd, p.MaxDrawdown),
			})
		}
	}

	// Daily loss
	if p.MaxDailyLoss > 0 {
		report.Limits = append(report.Limits, usage("Daily Loss", worstDay, p.MaxDailyLoss))
		if worstDay > p.MaxDailyLoss {
			report.Violations = append(report.Violations, Violation{
				Code:     CodeDailyLoss,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("Daily loss %.2f exceeded limit %.2f", worstDay, p.MaxDailyLoss),
			})
		}
	}

	// Position size
	if p.MaxPositionSize > 0 {
		report.Limits = append(report.Limits, usage("Position Size", largest, p.MaxPositionSize))
		ids := make([]string, 0)
		for _, t := range sorted {
			if math.Abs(t.Size) > p.MaxPositionSize {
				ids = append(ids, t.ID)
			}
		}
		if len(ids) > 0 {
			report.Violations = append(report.Violations, Violation{
				Code:     CodePositionSize,
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("%d trades exceeded position limit %.2f", len(ids), p.MaxPositionSize),
				TradeIDs: ids,
			})
		}
	}

	// Trading hours
	if cfg.TradingHours.Enabled() {
		if ids := outsideHours(cfg.TradingHours, sorted); len(ids) > 0 {
			report.Violations = append(report.Violations, Violation{
				Code:     CodeTradingHours,
				Severity: SeverityMedium,
				Message: fmt.Sprintf("%d trades entered outside %s-%s %s",
					len(ids), cfg.TradingHours.Start, cfg.TradingHours.End, cfg.TradingHours.Timezone),
				TradeIDs: ids,
			})
		}
	}

	// Win rate
	if p.RequiredWinRate > 0 {
		if wr := performance.WinRate(sorted); wr < p.RequiredWinRate {
			report.Violations = append(report.Violations, Violation{
				Code:     CodeWinRate,
				Severity: SeverityLow,
				Message:  fmt.Sprintf("Win rate %.1f%% below required %.1f%%", wr*100, p.RequiredWinRate*100),
			})
		}
	}

	// Profitable days
	if p.MinProfitableDays > 0 {
		profitable := 0
		for _, pnl := range daily {
			if pnl > 0 {
				profitable++
			}
		}
		if profitable < p.MinProfitableDays {
			report.Violations = append(report.Violations, Violation{
				Code:     CodeProfitableDays,
				Severity: SeverityLow,
				Message:  fmt.Sprintf("%d profitable days, %d required", profitable, p.MinProfitableDays),
			})
		}
	}

	sort.SliceStable(report.Violations, func(i, j int) bool {
		return severityRank(report.Violations[i].Severity) < severityRank(report.Violations[j].Severity)
	})
	report.Passed = len(report.Violations) == 0
	return report, nil
}

// worstDailyLoss magnitude of the most negative exit-day P&L, 0 when no day lost
func worstDailyLoss(daily map[string]float64) float64 {
	worst := 0.0
	for _, pnl := range daily {
		if pnl < worst {
			worst = pnl
		}
	}
	return -worst
}

func largestPosition(trades []contracts.Trade) float64 {
	largest := 0.0
	for _, t := range trades {
		largest = math.Max(largest, math.Abs(t.Size))
	}
	return largest
}

// outsideHours IDs of trades whose entry falls outside [start, end] local time
func outsideHours(h TradingHours, trades []contracts.Trade) []string {
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start := minutesOfDay(h.Start)
	end := minutesOfDay(h.End)

	ids := make([]string, 0)
	for _, t := range trades {
		local := t.EntryTime.In(loc)
		m := local.Hour()*60 + local.Minute()
		if m < start || m > end {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func minutesOfDay(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func usage(metric string, current, limit float64) LimitUsage {
	u := current / limit
	status := "ok"
	switch {
	case u > 0.8:
		status = "critical"
	case u > 0.6:
		status = "warning"
	}
	return LimitUsage{Metric: metric, Current: current, Limit: limit, Usage: u, Status: status}
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}
