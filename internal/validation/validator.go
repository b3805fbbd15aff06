package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wonny/tradelens/internal/contracts"
)

// ErrInvalidTrade is returned by ToTrade when a record has failures
var ErrInvalidTrade = errors.New("invalid trade")

// structCheck guards the strict Trade type after conversion
var structCheck = validator.New()

// =============================================================================
// Single record
// =============================================================================

// ValidateTrade returns every rule failure of a candidate record.
// ⭐ SSOT: all rules run independently; an empty slice means valid.
func ValidateTrade(c CandidateTrade) []string {
	failures := make([]string, 0)

	// Required fields
	if !present(c.EntryPrice) {
		failures = append(failures, "Entry price is required")
	}
	if !present(c.ExitPrice) {
		failures = append(failures, "Exit price is required")
	}
	if !present(c.Size) {
		failures = append(failures, "Size is required")
	}
	if !present(c.Direction) {
		failures = append(failures, "Direction is required")
	}
	if !present(c.EntryTimestamp) {
		failures = append(failures, "Entry timestamp is required")
	}
	if !present(c.ExitTimestamp) {
		failures = append(failures, "Exit timestamp is required")
	}

	// Type + range
	failures = appendNumberRule(failures, c.EntryPrice, "Entry price")
	failures = appendNumberRule(failures, c.ExitPrice, "Exit price")
	failures = appendNumberRule(failures, c.Size, "Size")

	// Domain
	if present(c.Direction) {
		if d, ok := c.Direction.(string); !ok || !contracts.Direction(d).Valid() {
			failures = append(failures, "Direction must be either LONG or SHORT")
		}
	}

	// Temporal
	entry, entryOK := asTime(c.EntryTimestamp)
	exit, exitOK := asTime(c.ExitTimestamp)
	if present(c.EntryTimestamp) && !entryOK {
		failures = append(failures, "Invalid entry timestamp")
	}
	if present(c.ExitTimestamp) && !exitOK {
		failures = append(failures, "Invalid exit timestamp")
	}
	if entryOK && exitOK && !entry.Before(exit) {
		failures = append(failures, "Entry time must be before exit time")
	}

	// Optional numeric fields
	if present(c.PnL) {
		if _, ok := asNumber(c.PnL); !ok {
			failures = append(failures, "PnL must be a number")
		}
	}
	if present(c.Fees) {
		if fees, ok := asNumber(c.Fees); !ok {
			failures = append(failures, "Fees must be a number")
		} else if fees < 0 {
			failures = append(failures, "Fees must not be negative")
		}
	}

	return failures
}

// appendNumberRule adds the type and positivity failures of a required numeric field
func appendNumberRule(failures []string, v interface{}, label string) []string {
	if !present(v) {
		return failures
	}
	n, ok := asNumber(v)
	if !ok {
		return append(failures, label+" must be a number")
	}
	if n <= 0 {
		return append(failures, label+" must be positive")
	}
	return failures
}

// =============================================================================
// Batch
// =============================================================================

// ValidateBatch maps each failing record's 0-based index to its failures.
// Valid records are omitted.
func ValidateBatch(candidates []CandidateTrade) map[int][]string {
	failures := make(map[int][]string)
	for i, c := range candidates {
		if errs := ValidateTrade(c); len(errs) > 0 {
			failures[i] = errs
		}
	}
	return failures
}

// Partition splits candidates into strict trades and the failure map.
// Input order is preserved among valid trades.
func Partition(candidates []CandidateTrade) ([]contracts.Trade, map[int][]string) {
	valid := make([]contracts.Trade, 0, len(candidates))
	failures := make(map[int][]string)

	for i, c := range candidates {
		trade, err := ToTrade(c)
		if err != nil {
			var tf *TradeFailures
			if errors.As(err, &tf) {
				failures[i] = tf.Reasons
			} else {
				failures[i] = []string{err.Error()}
			}
			continue
		}
		valid = append(valid, trade)
	}

	return valid, failures
}

// =============================================================================
// Strict conversion
// =============================================================================

// TradeFailures carries the rule failures of a rejected record
type TradeFailures struct {
	Reasons []string
}

func (e *TradeFailures) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTrade, strings.Join(e.Reasons, "; "))
}

func (e *TradeFailures) Unwrap() error {
	return ErrInvalidTrade
}

// ToTrade converts a candidate into the strict Trade type.
// A record without an identifier gets a generated one.
func ToTrade(c CandidateTrade) (contracts.Trade, error) {
	if reasons := ValidateTrade(c); len(reasons) > 0 {
		return contracts.Trade{}, &TradeFailures{Reasons: reasons}
	}

	entryPrice, _ := asNumber(c.EntryPrice)
	exitPrice, _ := asNumber(c.ExitPrice)
	size, _ := asNumber(c.Size)
	entry, _ := asTime(c.EntryTimestamp)
	exit, _ := asTime(c.ExitTimestamp)

	trade := contracts.Trade{
		ID:         asString(c.ID),
		EntryPrice: entryPrice,
		ExitPrice:  exitPrice,
		Size:       size,
		Direction:  contracts.Direction(c.Direction.(string)),
		EntryTime:  entry.UTC(),
		ExitTime:   exit.UTC(),
		Symbol:     asString(c.Symbol),
	}
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if pnl, ok := asNumber(c.PnL); ok {
		trade.PnL = &pnl
	}
	if fees, ok := asNumber(c.Fees); ok {
		trade.Fees = &fees
	}

	if err := structCheck.Struct(trade); err != nil {
		return contracts.Trade{}, fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}

	return trade, nil
}
