package contracts

import "time"

// TraderProfile owns a trader's trades and the metrics derived from them
type TraderProfile struct {
	ID          string        `json:"id"`
	FirmID      string        `json:"firmId"`
	Trades      []Trade       `json:"trades"`
	Metrics     TraderMetrics `json:"metrics"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// TradeCount returns the number of trades held by the profile
func (p *TraderProfile) TradeCount() int {
	return len(p.Trades)
}

// FirmProfile groups traders of one firm with metrics over all their trades
type FirmProfile struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Traders          []TraderProfile `json:"traders"`
	AggregateMetrics TraderMetrics   `json:"aggregateMetrics"`
}

// AllTrades returns the member trades concatenated in trader order
func (f *FirmProfile) AllTrades() []Trade {
	total := 0
	for _, t := range f.Traders {
		total += len(t.Trades)
	}

	out := make([]Trade, 0, total)
	for _, t := range f.Traders {
		out = append(out, t.Trades...)
	}
	return out
}

// GetTrader finds a member trader by ID
func (f *FirmProfile) GetTrader(id string) (TraderProfile, bool) {
	for _, t := range f.Traders {
		if t.ID == id {
			return t, true
		}
	}
	return TraderProfile{}, false
}
