package ingest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/validation"
)

const sampleJSON = `[
  {"id": "t1", "entryPrice": 100, "exitPrice": 110.5, "size": 2, "direction": "LONG",
   "entryTimestamp": "2024-01-02T10:00:00Z", "exitTimestamp": "2024-01-02T11:00:00Z", "symbol": "ES"},
  {"id": "t2", "entryPrice": "abc", "exitPrice": 90, "size": 1, "direction": "SHORT",
   "entryTimestamp": "2024-01-02T12:00:00Z", "exitTimestamp": "2024-01-02T13:00:00Z", "symbol": "NQ"}
]`

const sampleCSV = `id,entryPrice,exitPrice,size,direction,entryTimestamp,exitTimestamp,symbol,pnl,fees,notes
t1,100,110.5,2,LONG,2024-01-02T10:00:00Z,2024-01-02T11:00:00Z,ES,,1.5,first
t2,abc,90,1,SHORT,2024-01-02T12:00:00Z,2024-01-02T13:00:00Z,NQ,10,,second
`

func TestParse_JSON(t *testing.T) {
	up, err := Parse("trades.json", strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, up.Records, 2)
	assert.Equal(t, "trades.json", up.FileName)

	first := up.Records[0]
	assert.Equal(t, json.Number("110.5"), first.ExitPrice)
	assert.Equal(t, "LONG", first.Direction)
	assert.Empty(t, validation.ValidateTrade(first))

	assert.Contains(t, validation.ValidateTrade(up.Records[1]), "Entry price must be a number")
}

func TestParse_CSV(t *testing.T) {
	up, err := Parse("TRADES.CSV", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, up.Records, 2)

	first := up.Records[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, json.Number("100"), first.EntryPrice)
	assert.Nil(t, first.PnL)
	assert.Equal(t, json.Number("1.5"), first.Fees)
	assert.Empty(t, validation.ValidateTrade(first))

	second := up.Records[1]
	assert.Equal(t, "abc", second.EntryPrice)
	assert.Nil(t, second.Fees)
	assert.Contains(t, validation.ValidateTrade(second), "Entry price must be a number")
}

func TestParse_CSVCanonicalNumbers(t *testing.T) {
	in := "id,entryPrice,exitPrice,size,direction,entryTimestamp,exitTimestamp,symbol,fees\n" +
		"t1,+100,110.,.5,LONG,2024-01-02T10:00:00Z,2024-01-02T11:00:00Z,ES,0x1p-2\n" +
		"t2,NaN,90,1,SHORT,2024-01-02T12:00:00Z,2024-01-02T13:00:00Z,NQ,\n"
	up, err := Parse("trades.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, up.Records, 2)

	first := up.Records[0]
	assert.Equal(t, json.Number("100"), first.EntryPrice)
	assert.Equal(t, json.Number("110"), first.ExitPrice)
	assert.Equal(t, json.Number("0.5"), first.Size)
	assert.Equal(t, json.Number("0.25"), first.Fees)
	assert.Empty(t, validation.ValidateTrade(first))

	_, err = json.Marshal(up.Records)
	require.NoError(t, err)

	assert.Equal(t, "NaN", up.Records[1].EntryPrice)
}

func TestParse_CSVHeaderOnly(t *testing.T) {
	up, err := Parse("a.csv", strings.NewReader("id,entryPrice\n"))
	require.NoError(t, err)
	assert.Empty(t, up.Records)

	up, err = Parse("a.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, up.Records)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr error
	}{
		{"extension", "trades.xlsx", "", ErrUnsupportedType},
		{"no extension", "trades", "", ErrUnsupportedType},
		{"json object", "a.json", `{"id": 1}`, ErrMalformed},
		{"json garbage", "a.json", `[{`, ErrMalformed},
		{"csv unknown header", "a.csv", "foo,bar\n1,2\n", ErrMalformed},
		{"csv ragged row", "a.csv", "id,size\nt1,1,extra\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.file, strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var uerr *UploadError
			assert.True(t, errors.As(err, &uerr))
		})
	}
}

func TestParse_TooLarge(t *testing.T) {
	body := strings.Repeat(" ", MaxFileSize+1)
	_, err := Parse("big.json", strings.NewReader(body))
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestUploadError_Line(t *testing.T) {
	_, err := Parse("a.csv", strings.NewReader("id,size\nt1,1\nt2,1,2\n"))
	var uerr *UploadError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 3, uerr.Line)
	assert.Contains(t, uerr.Error(), "line 3")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	up, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trades.csv", up.FileName)
	assert.Len(t, up.Records, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
