package behavior

import (
	"fmt"

	"github.com/wonny/tradelens/internal/contracts"
)

// PatternType groups detected patterns
type PatternType string

const (
	PatternRisk     PatternType = "RISK"
	PatternBehavior PatternType = "BEHAVIOR"
)

// Pattern a detected trading habit
type Pattern struct {
	Name        string      `json:"name"`
	Type        PatternType `json:"type"`
	Confidence  float64     `json:"confidence"` // 0.0 ~ 1.0
	Description string      `json:"description"`
	TradeIDs    []string    `json:"tradeIds,omitempty"`
}

// Detection thresholds
const (
	RevengeLossesPerHour  = 3   // more than this many losses entered in one hour
	EscalationMultiplier  = 2.0 // size more than this times the previous size
	OverconfidenceWindow  = 5
	OverconfidenceMinWins = 4
)

// DetectPatterns scans trades in input order for risky habits
func DetectPatterns(trades []contracts.Trade) []Pattern {
	patterns := make([]Pattern, 0)
	if len(trades) == 0 {
		return patterns
	}

	if p, ok := revengeTrading(trades); ok {
		patterns = append(patterns, p)
	}
	if p, ok := sizeEscalation(trades); ok {
		patterns = append(patterns, p)
	}
	if p, ok := overconfidence(trades); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// revengeTrading losing trades bucketed by UTC entry hour of day
func revengeTrading(trades []contracts.Trade) (Pattern, bool) {
	byHour := make(map[int][]string)
	for _, t := range trades {
		if t.IsLoss() {
			h := t.EntryTime.UTC().Hour()
			byHour[h] = append(byHour[h], t.ID)
		}
	}

	worst := -1
	for h := 0; h < 24; h++ {
		if len(byHour[h]) > RevengeLossesPerHour && (worst < 0 || len(byHour[h]) > len(byHour[worst])) {
			worst = h
		}
	}
	if worst < 0 {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Potential Revenge Trading",
		Type:        PatternRisk,
		Confidence:  0.85,
		Description: fmt.Sprintf("%d losing trades entered during hour %02d:00 UTC", len(byHour[worst]), worst),
		TradeIDs:    byHour[worst],
	}, true
}

// sizeEscalation any trade sized more than twice its predecessor
func sizeEscalation(trades []contracts.Trade) (Pattern, bool) {
	ids := make([]string, 0)
	for i := 1; i < len(trades); i++ {
		if trades[i].Size > trades[i-1].Size*EscalationMultiplier {
			ids = append(ids, trades[i].ID)
		}
	}
	if len(ids) == 0 {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Position Size Escalation",
		Type:        PatternRisk,
		Confidence:  0.92,
		Description: "Dramatic increase in position sizing detected",
		TradeIDs:    ids,
	}, true
}

// overconfidence a hot streak in the most recent trades
func overconfidence(trades []contracts.Trade) (Pattern, bool) {
	start := len(trades) - OverconfidenceWindow
	if start < 0 {
		start = 0
	}

	ids := make([]string, 0, OverconfidenceWindow)
	for _, t := range trades[start:] {
		if t.IsWin() {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) < OverconfidenceMinWins {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Potential Overconfidence",
		Type:        PatternBehavior,
		Confidence:  0.78,
		Description: fmt.Sprintf("%d wins in the last %d trades", len(ids), len(trades[start:])),
		TradeIDs:    ids,
	}, true
}
