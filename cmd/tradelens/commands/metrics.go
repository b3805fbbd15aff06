package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/performance"
	"github.com/wonny/tradelens/internal/returns"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics <file>",
	Short: "Trader metrics with expectancy, Sortino and streaks",
	Long: `Aggregates the valid trades of an upload into trader metrics.
Invalid records are skipped with a warning.

Example:
  go run ./cmd/tradelens metrics trades.csv
  go run ./cmd/tradelens metrics trades.csv -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

// metricsSummary TraderMetrics plus the secondary figures
type metricsSummary struct {
	Trader        string                  `json:"trader"`
	Metrics       contracts.TraderMetrics `json:"metrics"`
	Expectancy    contracts.Metric        `json:"expectancy"`
	SortinoRatio  contracts.Metric        `json:"sortinoRatio"`
	MaxWinStreak  int                     `json:"maxWinStreak"`
	MaxLossStreak int                     `json:"maxLossStreak"`
	NetPnL        float64                 `json:"netPnL"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	trades, err := readTrades(args[0], log)
	if err != nil {
		return err
	}
	sorted := returns.SortByExit(trades)
	opts := analyzer.Options()

	wins, losses := performance.Streaks(sorted)
	summary := metricsSummary{
		Trader:        traderID(args[0]),
		Metrics:       analyzer.TraderMetrics(sorted),
		Expectancy:    performance.Expectancy(sorted),
		SortinoRatio:  performance.SortinoRatio(returns.Series(sorted), opts.Annualization, opts.RiskFreeRate),
		MaxWinStreak:  wins,
		MaxLossStreak: losses,
		NetPnL:        performance.NetPnL(sorted),
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, summary)
	}

	m := summary.Metrics
	PrintHeader(out, "Trader Metrics: "+summary.Trader)
	PrintKeyValue(out, "Trades", fmt.Sprintf("%d (%d winners)", m.TotalTrades, m.ProfitableTrades), 14)
	PrintKeyValue(out, "Win Rate", formatPct(m.WinRate), 14)
	PrintKeyValue(out, "Profit Factor", formatMetric(m.ProfitFactor), 14)
	PrintKeyValue(out, "Sharpe Ratio", formatMetric(m.SharpeRatio), 14)
	PrintKeyValue(out, "Sortino Ratio", formatMetric(summary.SortinoRatio), 14)
	PrintKeyValue(out, "Expectancy", formatMetric(summary.Expectancy), 14)
	PrintKeyValue(out, "Average Win", formatMetric(m.AverageWin), 14)
	PrintKeyValue(out, "Average Loss", formatMetric(m.AverageLoss), 14)
	PrintKeyValue(out, "Max Drawdown", formatMoney(m.MaxDrawdown), 14)
	PrintKeyValue(out, "Net P&L", formatMoney(summary.NetPnL), 14)
	PrintKeyValue(out, "Streaks", fmt.Sprintf("%d wins / %d losses", wins, losses), 14)
	PrintSeparator(out)

	if m.IsHealthy() {
		PrintSuccess(out, "Profit factor > 1.5 and Sharpe > 1")
	} else {
		PrintWarning(out, "Below the profitable-stage bar (profit factor > 1.5, Sharpe > 1)")
	}
	return nil
}
