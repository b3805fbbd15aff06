package contracts

import "time"

// Direction is the side of a closed position
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Valid reports whether d is LONG or SHORT
func (d Direction) Valid() bool {
	return d == Long || d == Short
}

// Sign returns +1 for LONG and -1 for SHORT
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// Trade represents one closed position that already passed validation.
// ⭐ SSOT: engines only ever see this strict type; partial records stay in
// the validation package.
type Trade struct {
	ID         string    `json:"id" validate:"required"`
	EntryPrice float64   `json:"entryPrice" validate:"gt=0"`
	ExitPrice  float64   `json:"exitPrice" validate:"gt=0"`
	Size       float64   `json:"size" validate:"gt=0"`
	Direction  Direction `json:"direction" validate:"oneof=LONG SHORT"`
	EntryTime  time.Time `json:"entryTimestamp" validate:"required"`
	ExitTime   time.Time `json:"exitTimestamp" validate:"required,gtfield=EntryTime"`
	Symbol     string    `json:"symbol"`
	PnL        *float64  `json:"pnl,omitempty"`  // reported by the upload, informational only
	Fees       *float64  `json:"fees,omitempty"` // optional
}

// PriceMove returns the direction-adjusted price difference
func (t Trade) PriceMove() float64 {
	return (t.ExitPrice - t.EntryPrice) * t.Direction.Sign()
}

// Return returns the fractional return of the trade
// ((exit - entry) / entry) * sign
func (t Trade) Return() float64 {
	return ((t.ExitPrice - t.EntryPrice) / t.EntryPrice) * t.Direction.Sign()
}

// GrossPnL returns the signed profit and loss in currency
func (t Trade) GrossPnL() float64 {
	return t.PriceMove() * t.Size
}

// FeesPaid returns the fees of the trade, 0 when absent
func (t Trade) FeesPaid() float64 {
	if t.Fees == nil {
		return 0
	}
	return *t.Fees
}

// NetPnL returns the gross P&L less fees
func (t Trade) NetPnL() float64 {
	return t.GrossPnL() - t.FeesPaid()
}

// IsWin reports whether the trade made money on price
func (t Trade) IsWin() bool {
	return t.PriceMove() > 0
}

// IsLoss reports whether the trade lost money on price
func (t Trade) IsLoss() bool {
	return t.PriceMove() < 0
}

// HoldingPeriod returns exit - entry
func (t Trade) HoldingPeriod() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// Notional returns size * entry price
func (t Trade) Notional() float64 {
	return t.Size * t.EntryPrice
}
