package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/internal/risk"
)

// riskCmd represents the risk command
var riskCmd = &cobra.Command{
	Use:   "risk <file>",
	Short: "Historical and parametric VaR with limit checks",
	Long: `Computes drawdown plus historical and parametric VaR at VAR_CONFIDENCE
and checks them against limits. A zero limit is disabled.

Example:
  go run ./cmd/tradelens risk trades.csv
  go run ./cmd/tradelens risk trades.csv --max-var 0.03 --max-drawdown 2500`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

var riskLimits = risk.DefaultRiskLimits()

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().Float64Var(&riskLimits.MaxVaR, "max-var", riskLimits.MaxVaR, "VaR limit, fraction per trade")
	riskCmd.Flags().Float64Var(&riskLimits.MaxCVaR, "max-cvar", riskLimits.MaxCVaR, "CVaR limit, fraction per trade")
	riskCmd.Flags().Float64Var(&riskLimits.MaxDrawdown, "max-drawdown", riskLimits.MaxDrawdown, "max drawdown limit, currency")
	riskCmd.Flags().Float64Var(&riskLimits.MaxCurrentLoss, "max-current-loss", riskLimits.MaxCurrentLoss, "current drawdown limit, currency")
}

// riskSummary JSON form of the risk command
type riskSummary struct {
	Check      *risk.RiskCheckResult `json:"check"`
	Parametric risk.VaRResult        `json:"parametric"`
}

func runRisk(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	trades, err := readTrades(args[0], log)
	if err != nil {
		return err
	}
	sorted := returns.SortByExit(trades)

	engine := risk.NewEngine(cfg.Analytics.VaRConfidence)
	summary := riskSummary{
		Check:      engine.CheckLimits(sorted, riskLimits),
		Parametric: engine.ParametricVaR(returns.Series(sorted)),
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := PrintJSON(out, summary); err != nil {
			return err
		}
	} else {
		c := summary.Check
		PrintHeader(out, fmt.Sprintf("Risk (%.0f%% confidence)", engine.Confidence()*100))
		PrintKeyValue(out, "Historical VaR", formatPct(c.VaR.VaR), 16)
		PrintKeyValue(out, "Historical CVaR", formatPct(c.VaR.CVaR), 16)
		PrintKeyValue(out, "Parametric VaR", formatPct(summary.Parametric.VaR), 16)
		PrintKeyValue(out, "Parametric CVaR", formatPct(summary.Parametric.CVaR), 16)
		PrintKeyValue(out, "Max Drawdown", formatMoney(c.Drawdown.MaxDrawdown), 16)
		PrintKeyValue(out, "Current Drawdown", formatMoney(c.Drawdown.CurrentDrawdown), 16)
		PrintKeyValue(out, "Peak P&L", formatMoney(c.Drawdown.Peak), 16)
		PrintSeparator(out)

		if c.Passed {
			PrintSuccess(out, "Within limits")
		}
		for _, v := range c.Violations {
			PrintError(out, v)
		}
	}

	if !summary.Check.Passed {
		return fmt.Errorf("%d risk limits exceeded", len(summary.Check.Violations))
	}
	return nil
}
