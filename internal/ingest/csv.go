package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wonny/tradelens/internal/validation"
)

// csvColumns maps lower-cased header names to record setters
var csvColumns = map[string]func(c *validation.CandidateTrade, v interface{}){
	"id":             func(c *validation.CandidateTrade, v interface{}) { c.ID = v },
	"entryprice":     func(c *validation.CandidateTrade, v interface{}) { c.EntryPrice = v },
	"exitprice":      func(c *validation.CandidateTrade, v interface{}) { c.ExitPrice = v },
	"size":           func(c *validation.CandidateTrade, v interface{}) { c.Size = v },
	"direction":      func(c *validation.CandidateTrade, v interface{}) { c.Direction = v },
	"entrytimestamp": func(c *validation.CandidateTrade, v interface{}) { c.EntryTimestamp = v },
	"exittimestamp":  func(c *validation.CandidateTrade, v interface{}) { c.ExitTimestamp = v },
	"symbol":         func(c *validation.CandidateTrade, v interface{}) { c.Symbol = v },
	"pnl":            func(c *validation.CandidateTrade, v interface{}) { c.PnL = v },
	"fees":           func(c *validation.CandidateTrade, v interface{}) { c.Fees = v },
}

// numericColumns are converted to json.Number when they parse
var numericColumns = map[string]bool{
	"entryprice": true,
	"exitprice":  true,
	"size":       true,
	"pnl":        true,
	"fees":       true,
}

// parseCSV reads a header row followed by one record per line.
// Unknown columns are ignored; unparseable numbers stay strings so that
// validation reports them as type failures.
func parseCSV(data []byte) ([]validation.CandidateTrade, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return make([]validation.CandidateTrade, 0), nil
	}
	if err != nil {
		return nil, csvError(err)
	}

	columns := make([]string, len(header))
	known := 0
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := csvColumns[key]; ok {
			columns[i] = key
			known++
		}
	}
	if known == 0 {
		return nil, &UploadError{Line: 1, Field: "header", Message: "no recognized columns", Value: header, Err: ErrMalformed}
	}

	records := make([]validation.CandidateTrade, 0)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		var c validation.CandidateTrade
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			csvColumns[columns[i]](&c, cellValue(columns[i], cell))
		}
		records = append(records, c)
	}

	return records, nil
}

// cellValue nil for blank cells, json.Number for finite numeric cells.
// Numbers are rewritten in canonical form so ".5" or "+100" stay valid JSON literals.
func cellValue(column, cell string) interface{} {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if numericColumns[column] {
		f, err := strconv.ParseFloat(cell, 64)
		if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	return cell
}

func csvError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &UploadError{Line: perr.Line, Field: "row", Message: perr.Err.Error(), Err: ErrMalformed}
	}
	return &UploadError{Field: "file", Message: err.Error(), Err: ErrMalformed}
}
