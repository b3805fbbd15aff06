package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/behavior"
	"github.com/wonny/tradelens/internal/returns"
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns <file>",
	Short: "Detect risky trading habits",
	Long: `Scans trades in exit order for:
- Revenge trading (a burst of losses entered within one hour)
- Position size escalation (size more than doubling)
- Overconfidence (a long run of recent wins)

Example:
  go run ./cmd/tradelens patterns trades.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	_, log, err := setup()
	if err != nil {
		return err
	}

	trades, err := readTrades(args[0], log)
	if err != nil {
		return err
	}
	patterns := behavior.DetectPatterns(returns.SortByExit(trades))

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, patterns)
	}

	PrintHeader(out, "Behavior Patterns: "+traderID(args[0]))
	if len(patterns) == 0 {
		PrintSuccess(out, "No risky patterns detected")
		return nil
	}
	for _, p := range patterns {
		PrintWarning(out, fmt.Sprintf("%s [%s] confidence %.0f%%", p.Name, p.Type, p.Confidence*100))
		PrintList(out, []string{p.Description})
		if len(p.TradeIDs) > 0 {
			PrintKeyValue(out, "Trades", fmt.Sprintf("%v", p.TradeIDs), 8)
		}
	}
	return nil
}
