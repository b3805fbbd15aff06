package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/analytics"
	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/pkg/redis"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Full analytics report for one upload",
	Long: `Validates every record of the upload and analyzes the valid ones.

The report has three blocks:
- Performance (P&L, win rate, Sharpe, profit factor)
- Risk (drawdown, historical VaR and CVaR)
- Behavior (holding time, frequency, consistency)

When REDIS_ENABLED=true, reports are cached by content hash for CACHE_TTL.

Example:
  go run ./cmd/tradelens analyze trades.csv
  go run ./cmd/tradelens analyze trades.json --scope FIRM -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeScope string

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeScope, "scope", string(contracts.ScopeIndividual), "analysis scope (INDIVIDUAL|GROUP|FIRM)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	candidates, err := readCandidates(args[0])
	if err != nil {
		return err
	}
	scope := contracts.Scope(strings.ToUpper(analyzeScope))

	client, err := redis.New(cmd.Context(), cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, analyzing without cache")
		client = redis.NewFromClient(nil, cfg.Redis.TTL)
	}
	defer client.Close()

	cached := analytics.NewCachedAnalyzer(analyzer, redis.NewCache(client, "tradelens"), cfg.Redis.TTL, log)
	report, hit, err := cached.Analyze(cmd.Context(), candidates, scope)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	log.WithField("cache_hit", hit).Debug("Analysis served")

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, report)
	}
	printAnalyticsReport(out, args[0], report)
	return nil
}

func printAnalyticsReport(w io.Writer, file string, report *analytics.Report) {
	res := report.Result
	PrintHeader(w, "Analytics Report")
	PrintKeyValue(w, "File", file, 10)
	PrintKeyValue(w, "Result ID", res.ID, 10)
	PrintKeyValue(w, "Scope", string(res.Scope), 10)
	PrintKeyValue(w, "Records", fmt.Sprintf("%d accepted, %d rejected", report.Accepted, report.Rejected), 10)
	PrintSeparator(w)

	if res.IsEmpty() {
		PrintWarning(w, "No valid trades to analyze")
	}

	p := res.Metrics.Performance
	PrintSection(w, "💰 Performance")
	PrintKeyValue(w, "Total P&L", formatMoney(p.TotalPnL), 16)
	PrintKeyValue(w, "Net P&L", formatMoney(p.NetPnL), 16)
	PrintKeyValue(w, "Trades", fmt.Sprintf("%d (%d winners)", p.TotalTrades, p.ProfitableTrades), 16)
	PrintKeyValue(w, "Win Rate", formatPct(p.WinRate), 16)
	PrintKeyValue(w, "Sharpe Ratio", formatMetric(p.SharpeRatio), 16)
	PrintKeyValue(w, "Profit Factor", formatMetric(p.ProfitFactor), 16)
	PrintKeyValue(w, "Average Win", formatMetric(p.AverageWin), 16)
	PrintKeyValue(w, "Average Loss", formatMetric(p.AverageLoss), 16)

	r := res.Metrics.Risk
	PrintSection(w, "📉 Risk")
	PrintKeyValue(w, "Max Drawdown", formatMoney(r.MaxDrawdown), 16)
	PrintKeyValue(w, "Current Drawdown", formatMoney(r.CurrentDrawdown), 16)
	PrintKeyValue(w, fmt.Sprintf("VaR (%.0f%%)", r.Confidence*100), formatPct(r.DailyVaR), 16)
	PrintKeyValue(w, fmt.Sprintf("CVaR (%.0f%%)", r.Confidence*100), formatPct(r.DailyCVaR), 16)

	b := res.Metrics.Behavior
	PrintSection(w, "🧭 Behavior")
	PrintKeyValue(w, "Avg Holding", fmt.Sprintf("%.2f h", b.AverageHoldingTime), 16)
	PrintKeyValue(w, "Frequency", fmt.Sprintf("%.2f trades/day", b.TradeFrequency), 16)
	PrintKeyValue(w, "Consistency", formatPct(b.ConsistencyScore), 16)

	if len(report.Failures) > 0 {
		PrintSection(w, "⚠️  Rejected Records")
		printFailures(w, report.Failures)
	}
	fmt.Fprintln(w)
}

// printFailures lists rejection reasons in input order
func printFailures(w io.Writer, failures map[int][]string) {
	idx := make([]int, 0, len(failures))
	for i := range failures {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	for _, i := range idx {
		fmt.Fprintf(w, "   #%d: %s\n", i+1, strings.Join(failures[i], "; "))
	}
}
