package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/compliance"
)

// complianceCmd represents the compliance command
var complianceCmd = &cobra.Command{
	Use:   "compliance <file>",
	Short: "Check trades against firm rules",
	Long: `Loads firm rules from YAML (FIRM_CONFIG, default firm.yaml) and reports
violations ordered by severity plus limit usage. Exits non-zero on violations.

Example:
  go run ./cmd/tradelens compliance trades.csv
  go run ./cmd/tradelens compliance trades.csv --firm-config configs/apex.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCompliance,
}

var firmConfigPath string

func init() {
	rootCmd.AddCommand(complianceCmd)
	complianceCmd.Flags().StringVar(&firmConfigPath, "firm-config", "", "firm rules YAML (default FIRM_CONFIG)")
}

func runCompliance(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	path := firmConfigPath
	if path == "" {
		path = cfg.FirmConfigPath
	}
	if !fileExists(path) {
		return fmt.Errorf("firm config %s not found (set --firm-config or FIRM_CONFIG)", path)
	}

	firm, _, err := compliance.Load(path)
	if err != nil {
		return err
	}
	hash, err := compliance.Hash(firm)
	if err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"firm": firm.ID,
		"hash": hash[:12],
	}).Debug("Firm rules loaded")

	trades, err := readTrades(args[0], log)
	if err != nil {
		return err
	}

	report, err := compliance.Check(firm, trades)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := PrintJSON(out, report); err != nil {
			return err
		}
	} else {
		PrintHeader(out, "Compliance: "+firm.ID)
		PrintKeyValue(out, "Rules", path, 8)
		PrintKeyValue(out, "Trades", fmt.Sprintf("%d", len(trades)), 8)
		PrintSeparator(out)

		if len(report.Limits) > 0 {
			widths := []int{14, 12, 12, 8, 8}
			PrintTableHeader(out, []string{"Limit", "Current", "Max", "Usage", "Status"}, widths)
			for _, l := range report.Limits {
				PrintTableRow(out, []string{l.Metric, formatMoney(l.Current), formatMoney(l.Limit), formatPct(l.Usage), l.Status}, widths)
			}
			fmt.Fprintln(out)
		}

		if report.Passed {
			PrintSuccess(out, "All firm rules satisfied")
		}
		for _, v := range report.Violations {
			PrintError(out, fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(v.Severity)), v.Code, v.Message))
			if len(v.TradeIDs) > 0 {
				PrintList(out, v.TradeIDs)
			}
		}
	}

	if !report.Passed {
		return fmt.Errorf("%d compliance violations", len(report.Violations))
	}
	return nil
}
