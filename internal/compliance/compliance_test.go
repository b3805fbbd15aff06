package compliance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/contracts"
)

const sampleYAML = `
id: apex
name: Apex Funding
risk_parameters:
  max_daily_loss: 500
  max_drawdown: 1000
  max_position_size: 10
  required_win_rate: 0.4
  min_profitable_days: 2
trading_hours:
  start: "09:30"
  end: "16:00"
  timezone: America/New_York
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "apex", cfg.ID)
	assert.Equal(t, 500.0, cfg.RiskParameters.MaxDailyLoss)
	assert.Equal(t, 2, cfg.RiskParameters.MinProfitableDays)
	assert.Equal(t, "America/New_York", cfg.TradingHours.Timezone)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(sampleYAML + "max_leverage: 5\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleYAML, string(raw))

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	again, _ := Hash(cfg)
	assert.Equal(t, hash, again)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *FirmConfig {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *FirmConfig)
		field  string
	}{
		{"missing id", func(c *FirmConfig) { c.ID = "" }, "ID"},
		{"negative drawdown", func(c *FirmConfig) { c.RiskParameters.MaxDrawdown = -1 }, "RiskParameters.MaxDrawdown"},
		{"win rate above 1", func(c *FirmConfig) { c.RiskParameters.RequiredWinRate = 1.2 }, "RiskParameters.RequiredWinRate"},
		{"bad start", func(c *FirmConfig) { c.TradingHours.Start = "9:30" }, "trading_hours.start"},
		{"inverted window", func(c *FirmConfig) { c.TradingHours.Start = "17:00" }, "trading_hours"},
		{"unknown timezone", func(c *FirmConfig) { c.TradingHours.Timezone = "Mars/Olympus" }, "trading_hours.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			var verr ValidationError
			require.True(t, errors.As(Validate(cfg), &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	noHours := valid()
	noHours.TradingHours = TradingHours{}
	assert.NoError(t, Validate(noHours))
}

// ny builds a LONG trade entered at the given New York wall-clock time
func ny(t *testing.T, id string, day, hour, minute int, move, size float64) contracts.Trade {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	entry := time.Date(2024, 3, day, hour, minute, 0, 0, loc)
	return contracts.Trade{
		ID:         id,
		EntryPrice: 100,
		ExitPrice:  100 + move,
		Size:       size,
		Direction:  contracts.Long,
		EntryTime:  entry.UTC(),
		ExitTime:   entry.Add(30 * time.Minute).UTC(),
	}
}

func TestCheck_Clean(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	trades := []contracts.Trade{
		ny(t, "a", 11, 10, 0, 20, 2),
		ny(t, "b", 12, 11, 0, -10, 2),
		ny(t, "c", 13, 15, 0, 15, 2),
	}

	report, err := Check(cfg, trades)
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Violations)
	require.Len(t, report.Limits, 3)
	assert.Equal(t, "Drawdown", report.Limits[0].Metric)
	assert.InDelta(t, 20.0, report.Limits[0].Current, 1e-9)
	assert.Equal(t, "ok", report.Limits[0].Status)
}

func TestCheck_Violations(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	trades := []contracts.Trade{
		ny(t, "early", 11, 8, 0, -30, 20), // before open, oversized, -600
		ny(t, "b", 11, 10, 0, -50, 10),    // -500, same day
		ny(t, "late", 12, 16, 30, 5, 1),   // after close
	}

	report, err := Check(cfg, trades)
	require.NoError(t, err)
	assert.False(t, report.Passed)

	codes := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []string{
		CodeDrawdown,
		CodeDailyLoss,
		CodePositionSize,
		CodeTradingHours,
		CodeWinRate,
		CodeProfitableDays,
	}, codes)

	assert.Equal(t, SeverityHigh, report.Violations[0].Severity)
	assert.Equal(t, []string{"early"}, report.Violations[2].TradeIDs)
	assert.Equal(t, []string{"early", "late"}, report.Violations[3].TradeIDs)

	assert.Equal(t, "critical", report.Limits[0].Status)
}

func TestCheck_Empty(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	report, err := Check(cfg, nil)
	require.NoError(t, err)
	assert.True(t, report.Passed)
}

func TestCheck_InvalidConfig(t *testing.T) {
	_, err := Check(&FirmConfig{}, nil)
	assert.Error(t, err)
}
