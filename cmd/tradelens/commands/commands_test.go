package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradelens/internal/analytics"
	"github.com/wonny/tradelens/internal/contracts"
)

const tradesCSV = `id,entryPrice,exitPrice,size,direction,entryTimestamp,exitTimestamp,symbol
t1,100,80,1,LONG,2024-01-01T10:00:00Z,2024-01-01T11:00:00Z,ES
t2,100,120,1,LONG,2024-01-01T11:00:00Z,2024-01-01T12:00:00Z,ES
t3,abc,120,1,LONG,2024-01-01T11:00:00Z,2024-01-01T12:00:00Z,ES
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "disabled")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		outputFormat = "text"
		verbose = false
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	path := writeFile(t, "alice.csv", tradesCSV)

	out, err := execute(t, "analyze", path, "-o", "json")
	require.NoError(t, err)

	var report analytics.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, contracts.ScopeIndividual, report.Result.Scope)
	assert.InDelta(t, 20.0, report.Result.Metrics.Risk.MaxDrawdown, 1e-9)
}

func TestAnalyzeCommand_Text(t *testing.T) {
	path := writeFile(t, "alice.csv", tradesCSV)

	out, err := execute(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Analytics Report")
	assert.Contains(t, out, "2 accepted, 1 rejected")
	assert.Contains(t, out, "Entry price must be a number")
}

func TestValidateCommand_FailsOnInvalid(t *testing.T) {
	path := writeFile(t, "alice.csv", tradesCSV)

	out, err := execute(t, "validate", path)
	assert.Error(t, err)
	assert.Contains(t, out, "#3")
}

func TestCorrelateCommand(t *testing.T) {
	a := writeFile(t, "alice.csv", tradesCSV)
	b := writeFile(t, "bob.csv", tradesCSV)

	out, err := execute(t, "correlate", a, b, "-o", "json")
	require.NoError(t, err)

	var summary struct {
		Matrix struct {
			Keys []string `json:"keys"`
		} `json:"matrix"`
		Flagged []struct {
			Correlation float64 `json:"correlation"`
		} `json:"flagged"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"alice", "bob"}, summary.Matrix.Keys)
	require.Len(t, summary.Flagged, 1)
	assert.InDelta(t, 1.0, summary.Flagged[0].Correlation, 1e-9)
}

func TestUnknownOutputFormat(t *testing.T) {
	path := writeFile(t, "alice.csv", tradesCSV)
	_, err := execute(t, "metrics", path, "-o", "xml")
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{1234567.891, "1,234,567.89"},
		{-1000, "-1,000.00"},
		{0.999, "1.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in))
	}
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "1.50", formatMetric(contracts.Defined(1.5)))
	assert.Equal(t, "∞", formatMetric(contracts.Infinite()))
	assert.Equal(t, "n/a", formatMetric(contracts.Undefined()))
}

func TestParseFirmFlag(t *testing.T) {
	id, files, err := parseFirmFlag("apex=a.csv, b.csv")
	require.NoError(t, err)
	assert.Equal(t, "apex", id)
	assert.Equal(t, []string{"a.csv", "b.csv"}, files)

	_, _, err = parseFirmFlag("apex")
	assert.Error(t, err)
}

func TestTraderID(t *testing.T) {
	assert.Equal(t, "alice", traderID("/tmp/uploads/alice.csv"))
}
