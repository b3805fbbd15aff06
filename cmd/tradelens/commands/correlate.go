package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/correlation"
	"github.com/wonny/tradelens/internal/portfolio"
	"github.com/wonny/tradelens/pkg/logger"
)

// correlateCmd represents the correlate command
var correlateCmd = &cobra.Command{
	Use:   "correlate <file> <file> [file...]",
	Short: "Correlation matrix of trader return series",
	Long: `Each file is one trader, named after the file. Returns are correlated
pairwise over their common length (Pearson).

Example:
  go run ./cmd/tradelens correlate alice.csv bob.csv carol.json
  go run ./cmd/tradelens correlate alice.csv bob.csv --threshold 0.5`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCorrelate,
}

var correlateThreshold float64

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().Float64Var(&correlateThreshold, "threshold", 0.7, "|r| at or above which a pair is flagged")
}

// correlationSummary JSON form of the correlate command
type correlationSummary struct {
	Matrix  *correlation.CorrelationMatrix `json:"matrix"`
	Flagged []correlation.Pair             `json:"flagged"`
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	_, log, err := setup()
	if err != nil {
		return err
	}

	traders, err := readTraderFiles(args, log)
	if err != nil {
		return err
	}

	m := portfolio.CorrelationMatrix(traders)
	summary := correlationSummary{Matrix: m, Flagged: m.HighlyCorrelated(correlateThreshold)}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, summary)
	}

	PrintHeader(out, "Return Correlation")
	printMatrix(out, m)
	PrintSection(out, fmt.Sprintf("Pairs with |r| ≥ %.2f", correlateThreshold))
	if len(summary.Flagged) == 0 {
		PrintSuccess(out, "None")
		return nil
	}
	for _, p := range summary.Flagged {
		PrintWarning(out, fmt.Sprintf("%s ↔ %s: %+.3f", p.A, p.B, p.Correlation))
	}
	return nil
}

// readTraderFiles loads one trader profile per upload file
func readTraderFiles(paths []string, log *logger.Logger) ([]contracts.TraderProfile, error) {
	seen := make(map[string]bool, len(paths))
	traders := make([]contracts.TraderProfile, 0, len(paths))
	for _, path := range paths {
		id := traderID(path)
		if seen[id] {
			return nil, fmt.Errorf("duplicate trader name %q (from %s)", id, path)
		}
		seen[id] = true

		trades, err := readTrades(path, log)
		if err != nil {
			return nil, err
		}
		traders = append(traders, contracts.TraderProfile{ID: id, Trades: trades})
	}
	return traders, nil
}

func printMatrix(w io.Writer, m *correlation.CorrelationMatrix) {
	widths := make([]int, len(m.Keys)+1)
	widths[0] = 12
	header := append([]string{""}, m.Keys...)
	for i := 1; i < len(widths); i++ {
		widths[i] = 8
		if len(header[i]) > widths[i] {
			widths[i] = len(header[i])
		}
	}

	PrintTableHeader(w, header, widths)
	for i, key := range m.Keys {
		row := []string{key}
		for j := range m.Keys {
			row = append(row, fmt.Sprintf("%+.3f", m.Values[i][j]))
		}
		PrintTableRow(w, row, widths)
	}
}
