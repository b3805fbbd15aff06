package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CandidateTrade is a trade record as deserialized by the upload parser.
// Field values stay untyped so that shape defects (a price sent as a string,
// a missing direction) reach the validation rules instead of failing decode.
type CandidateTrade struct {
	ID             interface{} `json:"id"`
	EntryPrice     interface{} `json:"entryPrice"`
	ExitPrice      interface{} `json:"exitPrice"`
	Size           interface{} `json:"size"`
	Direction      interface{} `json:"direction"`
	EntryTimestamp interface{} `json:"entryTimestamp"`
	ExitTimestamp  interface{} `json:"exitTimestamp"`
	Symbol         interface{} `json:"symbol"`
	PnL            interface{} `json:"pnl,omitempty"`
	Fees           interface{} `json:"fees,omitempty"`
}

// timestampLayouts accepted for entry/exit timestamps, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// present reports whether a field was supplied at all
func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// asNumber extracts a finite float from Go numeric kinds and json.Number.
// Strings are rejected even when they look numeric.
func asNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asTime parses a timestamp field into an instant
func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// asString renders identifier-like fields
func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	}
	if f, ok := asNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
