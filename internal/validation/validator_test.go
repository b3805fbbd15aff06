package validation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/contracts"
)

func validCandidate() CandidateTrade {
	return CandidateTrade{
		ID:             "1",
		EntryPrice:     100.0,
		ExitPrice:      110.0,
		Size:           1.0,
		Direction:      "LONG",
		EntryTimestamp: "2024-01-01T10:00:00Z",
		ExitTimestamp:  "2024-01-01T11:00:00Z",
		Symbol:         "AAPL",
	}
}

func TestValidateTrade_Valid(t *testing.T) {
	assert.Empty(t, ValidateTrade(validCandidate()))
}

func TestValidateTrade_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CandidateTrade)
		want   []string
	}{
		{
			name:   "missing entry price",
			mutate: func(c *CandidateTrade) { c.EntryPrice = nil },
			want:   []string{"Entry price is required"},
		},
		{
			name:   "string exit price",
			mutate: func(c *CandidateTrade) { c.ExitPrice = "110" },
			want:   []string{"Exit price must be a number"},
		},
		{
			name:   "negative size",
			mutate: func(c *CandidateTrade) { c.Size = -1.0 },
			want:   []string{"Size must be positive"},
		},
		{
			name:   "zero entry price",
			mutate: func(c *CandidateTrade) { c.EntryPrice = 0 },
			want:   []string{"Entry price must be positive"},
		},
		{
			name:   "unknown direction",
			mutate: func(c *CandidateTrade) { c.Direction = "BUY" },
			want:   []string{"Direction must be either LONG or SHORT"},
		},
		{
			name:   "lowercase direction",
			mutate: func(c *CandidateTrade) { c.Direction = "long" },
			want:   []string{"Direction must be either LONG or SHORT"},
		},
		{
			name:   "unparseable entry timestamp",
			mutate: func(c *CandidateTrade) { c.EntryTimestamp = "yesterday" },
			want:   []string{"Invalid entry timestamp"},
		},
		{
			name: "exit before entry",
			mutate: func(c *CandidateTrade) {
				c.EntryTimestamp = "2024-01-02T10:00:00Z"
				c.ExitTimestamp = "2024-01-01T10:00:00Z"
			},
			want: []string{"Entry time must be before exit time"},
		},
		{
			name: "equal timestamps",
			mutate: func(c *CandidateTrade) {
				c.ExitTimestamp = c.EntryTimestamp
			},
			want: []string{"Entry time must be before exit time"},
		},
		{
			name:   "blank direction",
			mutate: func(c *CandidateTrade) { c.Direction = "  " },
			want:   []string{"Direction is required"},
		},
		{
			name:   "non-numeric fees",
			mutate: func(c *CandidateTrade) { c.Fees = "free" },
			want:   []string{"Fees must be a number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			assert.Equal(t, tt.want, ValidateTrade(c))
		})
	}
}

func TestValidateTrade_ReportsEveryFailure(t *testing.T) {
	c := validCandidate()
	c.Size = 0.0
	c.Direction = "FLAT"

	errs := ValidateTrade(c)
	assert.Contains(t, errs, "Size must be positive")
	assert.Contains(t, errs, "Direction must be either LONG or SHORT")
	assert.Len(t, errs, 2)
}

func TestValidateTrade_EmptyRecord(t *testing.T) {
	errs := ValidateTrade(CandidateTrade{})
	assert.Equal(t, []string{
		"Entry price is required",
		"Exit price is required",
		"Size is required",
		"Direction is required",
		"Entry timestamp is required",
		"Exit timestamp is required",
	}, errs)
}

func TestValidateTrade_JSONNumbers(t *testing.T) {
	c := validCandidate()
	c.EntryPrice = json.Number("100.5")
	c.Size = json.Number("2")
	assert.Empty(t, ValidateTrade(c))

	c.Size = json.Number("abc")
	assert.Equal(t, []string{"Size must be a number"}, ValidateTrade(c))
}

func TestValidateTrade_IntegerKinds(t *testing.T) {
	tests := []struct {
		name string
		size interface{}
	}{
		{"int8", int8(2)},
		{"int16", int16(2)},
		{"int32", int32(2)},
		{"int64", int64(2)},
		{"uint8", uint8(2)},
		{"uint16", uint16(2)},
		{"uint32", uint32(2)},
		{"uint64", uint64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			c.Size = tt.size
			assert.Empty(t, ValidateTrade(c))
		})
	}
}

func TestValidateBatch(t *testing.T) {
	bad := validCandidate()
	bad.Size = -1.0

	failures := ValidateBatch([]CandidateTrade{validCandidate(), bad})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[1], "Size must be positive")

	assert.Empty(t, ValidateBatch(nil))
}

func TestToTrade(t *testing.T) {
	c := validCandidate()
	c.Fees = 1.5
	c.EntryTimestamp = "2024-01-01T12:00:00+02:00"

	trade, err := ToTrade(c)
	require.NoError(t, err)
	assert.Equal(t, "1", trade.ID)
	assert.Equal(t, contracts.Long, trade.Direction)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), trade.EntryTime)
	require.NotNil(t, trade.Fees)
	assert.Equal(t, 1.5, *trade.Fees)
	assert.Nil(t, trade.PnL)
}

func TestToTrade_GeneratesID(t *testing.T) {
	c := validCandidate()
	c.ID = nil

	trade, err := ToTrade(c)
	require.NoError(t, err)
	assert.Len(t, trade.ID, 36)
}

func TestToTrade_Invalid(t *testing.T) {
	c := validCandidate()
	c.ExitPrice = nil

	_, err := ToTrade(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTrade))

	var tf *TradeFailures
	require.True(t, errors.As(err, &tf))
	assert.Equal(t, []string{"Exit price is required"}, tf.Reasons)
}

func TestPartition(t *testing.T) {
	bad := validCandidate()
	bad.Direction = nil
	second := validCandidate()
	second.ID = "2"

	valid, failures := Partition([]CandidateTrade{validCandidate(), bad, second})
	require.Len(t, valid, 2)
	assert.Equal(t, "1", valid[0].ID)
	assert.Equal(t, "2", valid[1].ID)
	assert.Equal(t, map[int][]string{1: {"Direction is required"}}, failures)
}
