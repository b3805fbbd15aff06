package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/contracts"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func trade(id string, entry, exit float64, dir contracts.Direction, exitAfter time.Duration) contracts.Trade {
	return contracts.Trade{
		ID:         id,
		EntryPrice: entry,
		ExitPrice:  exit,
		Size:       2,
		Direction:  dir,
		EntryTime:  base,
		ExitTime:   base.Add(exitAfter),
	}
}

func TestSeries(t *testing.T) {
	trades := []contracts.Trade{
		trade("a", 100, 110, contracts.Long, time.Hour),
		trade("b", 100, 110, contracts.Short, time.Hour),
		trade("c", 50, 25, contracts.Long, time.Hour),
	}

	got := Series(trades)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.10, got[0], 1e-12)
	assert.InDelta(t, -0.10, got[1], 1e-12)
	assert.InDelta(t, -0.50, got[2], 1e-12)
}

func TestSeries_Empty(t *testing.T) {
	assert.Empty(t, Series(nil))
	assert.Empty(t, PnLSeries([]contracts.Trade{}))
}

func TestPnLSeries(t *testing.T) {
	got := PnLSeries([]contracts.Trade{
		trade("a", 100, 110, contracts.Long, time.Hour),
		trade("b", 100, 110, contracts.Short, time.Hour),
	})
	assert.Equal(t, []float64{20, -20}, got)
}

func TestSortByExit(t *testing.T) {
	in := []contracts.Trade{
		trade("late", 1, 2, contracts.Long, 3*time.Hour),
		trade("early", 1, 2, contracts.Long, time.Hour),
		trade("tie", 1, 2, contracts.Long, 3*time.Hour),
	}

	sorted := SortByExit(in)
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"early", "late", "tie"}, ids)

	// caller's slice untouched
	assert.Equal(t, "late", in[0].ID)
	assert.Equal(t, "early", in[1].ID)
}
