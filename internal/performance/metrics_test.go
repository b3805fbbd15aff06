package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/contracts"
)

var t0 = time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC)

func tr(entry, exit, size float64, dir contracts.Direction) contracts.Trade {
	return contracts.Trade{
		ID:         "x",
		EntryPrice: entry,
		ExitPrice:  exit,
		Size:       size,
		Direction:  dir,
		EntryTime:  t0,
		ExitTime:   t0.Add(30 * time.Minute),
	}
}

func TestWinRate_SingleRoundTrip(t *testing.T) {
	trades := []contracts.Trade{
		tr(100, 110, 1, contracts.Long),
		tr(110, 100, 1, contracts.Long),
	}
	assert.Equal(t, 0.5, WinRate(trades))
	assert.Zero(t, TotalPnL(trades))
}

func TestEmptyInput(t *testing.T) {
	m := Calculate(nil, DefaultOptions())
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.TotalTrades)
	assert.Equal(t, contracts.Undefined(), m.SharpeRatio)
	assert.Equal(t, contracts.Undefined(), m.ProfitFactor)
	assert.Equal(t, contracts.Undefined(), m.AverageWin)
	assert.Equal(t, contracts.Undefined(), m.AverageLoss)
}

func TestProfitFactor(t *testing.T) {
	tests := []struct {
		name   string
		trades []contracts.Trade
		want   contracts.Metric
	}{
		{
			name:   "mixed",
			trades: []contracts.Trade{tr(100, 130, 1, contracts.Long), tr(100, 110, 1, contracts.Short)},
			want:   contracts.Defined(3),
		},
		{
			name:   "all winners",
			trades: []contracts.Trade{tr(100, 110, 1, contracts.Long)},
			want:   contracts.Infinite(),
		},
		{
			name:   "all losers",
			trades: []contracts.Trade{tr(100, 90, 1, contracts.Long)},
			want:   contracts.Defined(0),
		},
		{
			name:   "breakeven only",
			trades: []contracts.Trade{tr(100, 100, 1, contracts.Long)},
			want:   contracts.Undefined(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfitFactor(tt.trades))
		})
	}
}

func TestAverageWinLoss(t *testing.T) {
	trades := []contracts.Trade{
		tr(100, 110, 2, contracts.Long),  // +20
		tr(100, 104, 1, contracts.Long),  // +4
		tr(100, 105, 2, contracts.Short), // -10
		tr(100, 100, 5, contracts.Long),  // breakeven
	}

	assert.Equal(t, contracts.Defined(12), AverageWin(trades))
	assert.Equal(t, contracts.Defined(-10), AverageLoss(trades))
	assert.Equal(t, contracts.Undefined(), AverageLoss(trades[:2]))
	assert.Equal(t, 0.5, WinRate(trades))
	assert.Equal(t, contracts.Defined(3.5), Expectancy(trades))
}

func TestSharpeRatio(t *testing.T) {
	rets := []float64{0.01, 0.02, -0.01, 0.03}
	// mean 0.0125, sample sd 0.017078
	got := SharpeRatio(rets, 252, 0)
	require.True(t, got.IsOK())
	assert.InDelta(t, 0.0125/0.0170782513*math.Sqrt(252), got.Value, 1e-6)

	withRf := SharpeRatio(rets, 252, 0.0125)
	assert.InDelta(t, 0.0, withRf.Value, 1e-12)

	assert.Equal(t, contracts.Undefined(), SharpeRatio([]float64{0.05}, 252, 0))
	assert.Equal(t, contracts.Undefined(), SharpeRatio([]float64{0.25, 0.25, 0.25}, 252, 0))
}

func TestSharpeRatio_ConstantReturns(t *testing.T) {
	// 0.1 + 0.1 + 0.1 leaves rounding noise in the mean
	assert.Equal(t, contracts.Undefined(), SharpeRatio([]float64{0.1, 0.1, 0.1}, 252, 0))
	assert.Equal(t, contracts.Undefined(), SharpeRatio([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, 252, 0.02))

	trades := []contracts.Trade{
		tr(100, 110, 1, contracts.Long),
		tr(100, 110, 1, contracts.Long),
		tr(100, 110, 1, contracts.Long),
	}
	m := Calculate(trades, DefaultOptions())
	assert.Equal(t, contracts.Undefined(), m.SharpeRatio)
}

func TestSortinoRatio(t *testing.T) {
	assert.Equal(t, contracts.Infinite(), SortinoRatio([]float64{0.01, 0.02}, 252, 0))
	assert.Equal(t, contracts.Undefined(), SortinoRatio([]float64{0, 0}, 252, 0))

	got := SortinoRatio([]float64{0.02, -0.02, 0.04, -0.02}, 1, 0)
	// mean 0.005, downside sqrt((0.0004+0.0004)/4)
	assert.InDelta(t, 0.005/math.Sqrt(0.0002), got.Value, 1e-9)

	// constant negative excess: downside equals |mean|
	flat := SortinoRatio([]float64{-0.1, -0.1, -0.1}, 1, 0)
	require.True(t, flat.IsOK())
	assert.InDelta(t, -1.0, flat.Value, 1e-9)
}

func TestStreaks(t *testing.T) {
	w := tr(100, 110, 1, contracts.Long)
	l := tr(100, 90, 1, contracts.Long)
	b := tr(100, 100, 1, contracts.Long)

	wins, losses := Streaks([]contracts.Trade{w, w, l, l, l, b, w, w, w, w})
	assert.Equal(t, 4, wins)
	assert.Equal(t, 3, losses)

	wins, losses = Streaks(nil)
	assert.Zero(t, wins)
	assert.Zero(t, losses)
}

func TestCalculate(t *testing.T) {
	fees := 1.0
	loser := tr(100, 80, 1, contracts.Long)
	loser.Fees = &fees
	winner := tr(100, 120, 1, contracts.Long)
	winner.EntryTime = t0.Add(time.Hour)
	winner.ExitTime = t0.Add(2 * time.Hour)

	trades := []contracts.Trade{loser, winner}
	m := Calculate(trades, DefaultOptions())

	assert.Equal(t, 2, m.TotalTrades)
	assert.Equal(t, 1, m.ProfitableTrades)
	assert.Equal(t, 0.5, m.WinRate)
	assert.Equal(t, contracts.Defined(1), m.ProfitFactor)
	assert.InDelta(t, 20.0, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 0.0, m.SharpeRatio.Value, 1e-12)

	block := Block(trades, DefaultOptions())
	assert.Zero(t, block.TotalPnL)
	assert.Equal(t, -1.0, block.NetPnL)
}
