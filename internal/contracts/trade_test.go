package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrade(entry, exit, size float64, dir Direction) Trade {
	open := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return Trade{
		ID:         "T1",
		EntryPrice: entry,
		ExitPrice:  exit,
		Size:       size,
		Direction:  dir,
		EntryTime:  open,
		ExitTime:   open.Add(time.Hour),
		Symbol:     "TEST",
	}
}

func TestTrade_Return(t *testing.T) {
	tests := []struct {
		name  string
		trade Trade
		want  float64
	}{
		{"long winner", newTrade(100, 110, 1, Long), 0.10},
		{"long loser", newTrade(100, 90, 1, Long), -0.10},
		{"short winner", newTrade(100, 90, 1, Short), 0.10},
		{"short loser", newTrade(100, 110, 1, Short), -0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.trade.Return(), 1e-12)
		})
	}
}

func TestTrade_PnL(t *testing.T) {
	tr := newTrade(100, 110, 3, Short)
	assert.InDelta(t, -30.0, tr.GrossPnL(), 1e-12)
	assert.True(t, tr.IsLoss())
	assert.False(t, tr.IsWin())

	fees := 2.5
	tr.Fees = &fees
	assert.InDelta(t, -32.5, tr.NetPnL(), 1e-12)
	assert.Equal(t, time.Hour, tr.HoldingPeriod())
}

func TestTrade_Breakeven(t *testing.T) {
	tr := newTrade(100, 100, 1, Long)
	assert.False(t, tr.IsWin())
	assert.False(t, tr.IsLoss())
	assert.Zero(t, tr.GrossPnL())
}

func TestDirection(t *testing.T) {
	assert.True(t, Long.Valid())
	assert.True(t, Short.Valid())
	assert.False(t, Direction("SIDEWAYS").Valid())
	assert.Equal(t, 1.0, Long.Sign())
	assert.Equal(t, -1.0, Short.Sign())
}

func TestRatio(t *testing.T) {
	assert.Equal(t, Metric{Value: 2, State: StateOK}, Ratio(4, 2))
	assert.Equal(t, Infinite(), Ratio(4, 0))
	assert.Equal(t, Undefined(), Ratio(0, 0))
	assert.Equal(t, Undefined(), Ratio(-1, 0))
}

func TestMetric_JSON(t *testing.T) {
	data, err := json.Marshal(Infinite())
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":0,"state":"infinite"}`, string(data))

	var m Metric
	require.NoError(t, json.Unmarshal([]byte(`{"value":1.5}`), &m))
	assert.Equal(t, Defined(1.5), m)

	assert.Error(t, json.Unmarshal([]byte(`{"value":1,"state":"weird"}`), &m))
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "1.2500", Defined(1.25).String())
	assert.Equal(t, "inf", Infinite().String())
	assert.Equal(t, "n/a", Undefined().String())
}

func TestTraderMetrics_IsHealthy(t *testing.T) {
	m := TraderMetrics{ProfitFactor: Defined(2), SharpeRatio: Defined(1.2)}
	assert.True(t, m.IsHealthy())

	m.SharpeRatio = Undefined()
	assert.False(t, m.IsHealthy())

	m = TraderMetrics{ProfitFactor: Infinite(), SharpeRatio: Defined(3)}
	assert.True(t, m.IsHealthy())
}

func TestFirmProfile_AllTrades(t *testing.T) {
	firm := &FirmProfile{
		ID: "F1",
		Traders: []TraderProfile{
			{ID: "A", Trades: []Trade{newTrade(1, 2, 1, Long)}},
			{ID: "B", Trades: []Trade{newTrade(1, 2, 1, Long), newTrade(2, 1, 1, Long)}},
		},
	}

	assert.Len(t, firm.AllTrades(), 3)

	tp, ok := firm.GetTrader("B")
	require.True(t, ok)
	assert.Equal(t, 2, tp.TradeCount())

	_, ok = firm.GetTrader("Z")
	assert.False(t, ok)
}
