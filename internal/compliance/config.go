package compliance

// FirmConfig prop-firm rule set loaded from YAML
// ⭐ SSOT: every firm limit comes from this file, nothing is hard-coded
type FirmConfig struct {
	ID             string         `yaml:"id" json:"id" validate:"required"`
	Name           string         `yaml:"name" json:"name"`
	RiskParameters RiskParameters `yaml:"risk_parameters" json:"riskParameters"`
	TradingHours   TradingHours   `yaml:"trading_hours" json:"tradingHours"`
}

// RiskParameters firm limits. Zero disables a rule.
type RiskParameters struct {
	// currency, worst exit-day P&L
	MaxDailyLoss float64 `yaml:"max_daily_loss" json:"maxDailyLoss" validate:"gte=0"`

	// currency, peak to trough
	MaxDrawdown float64 `yaml:"max_drawdown" json:"maxDrawdown" validate:"gte=0"`

	// units per trade
	MaxPositionSize   float64 `yaml:"max_position_size" json:"maxPositionSize" validate:"gte=0"`
	RequiredWinRate   float64 `yaml:"required_win_rate" json:"requiredWinRate" validate:"gte=0,lte=1"`
	MinProfitableDays int     `yaml:"min_profitable_days" json:"minProfitableDays" validate:"gte=0"`
}

// TradingHours window in which entries are allowed
type TradingHours struct {
	Start    string `yaml:"start" json:"start"`       // "09:30"
	End      string `yaml:"end" json:"end"`           // "16:00"
	Timezone string `yaml:"timezone" json:"timezone"` // IANA, e.g. "America/New_York"
}

// Enabled reports whether a trading window is configured
func (h TradingHours) Enabled() bool {
	return h.Start != "" || h.End != ""
}
