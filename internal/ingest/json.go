package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wonny/tradelens/internal/validation"
)

// parseJSON decodes an array of records, keeping numbers as json.Number
func parseJSON(data []byte) ([]validation.CandidateTrade, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []validation.CandidateTrade
	if err := dec.Decode(&records); err != nil {
		return nil, &UploadError{Field: "file", Message: fmt.Sprintf("invalid JSON: %v", err), Err: ErrMalformed}
	}
	if records == nil {
		records = make([]validation.CandidateTrade, 0)
	}
	return records, nil
}
