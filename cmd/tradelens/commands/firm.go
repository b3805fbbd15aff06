package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/performance"
	"github.com/wonny/tradelens/internal/portfolio"
	"github.com/wonny/tradelens/internal/risk"
	"github.com/wonny/tradelens/internal/workspace"
	"github.com/wonny/tradelens/pkg/config"
	"github.com/wonny/tradelens/pkg/logger"
)

// firmCmd represents the firm command
var firmCmd = &cobra.Command{
	Use:   "firm",
	Short: "Firm and group views",
	Long: `Aggregates several traders (one upload file each) into a firm.

Example:
  go run ./cmd/tradelens firm report alice.csv bob.csv --id apex --name "Apex Funding"
  go run ./cmd/tradelens firm compare --firm apex=alice.csv,bob.csv --firm topstep=carol.csv`,
}

var (
	firmReportCmd = &cobra.Command{
		Use:   "report <file> [file...]",
		Short: "Aggregate metrics, exposure, capital, funnel and daily risk",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFirmReport,
	}

	firmCompareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Compare firms by averaged trader metrics",
		RunE:  runFirmCompare,
	}

	// Flags
	firmID    string
	firmName  string
	firmFlags []string
)

func init() {
	rootCmd.AddCommand(firmCmd)
	firmCmd.AddCommand(firmReportCmd)
	firmCmd.AddCommand(firmCompareCmd)

	firmReportCmd.Flags().StringVar(&firmID, "id", "firm", "firm ID")
	firmReportCmd.Flags().StringVar(&firmName, "name", "", "firm display name")
	firmCompareCmd.Flags().StringArrayVar(&firmFlags, "firm", nil, "firm as id=file1,file2 (repeatable)")
	firmCompareCmd.MarkFlagRequired("firm")
}

// firmReport JSON form of firm report
type firmReport struct {
	Firm       contracts.FirmProfile      `json:"firm"`
	Exposure   []portfolio.SymbolExposure `json:"exposure"`
	Allocation *portfolio.Allocation      `json:"allocation"`
	Funnel     portfolio.Funnel           `json:"funnel"`
	DailyRisk  []portfolio.DayRisk        `json:"dailyRisk"`
	VaR        risk.VaRResult             `json:"var"`
}

func runFirmReport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ws := newWorkspace(cfg, log)
	firm, err := loadFirm(ws, firmID, firmName, args, log)
	if err != nil {
		return err
	}

	report := firmReport{
		Firm:       firm,
		Exposure:   portfolio.Exposure(firm.Traders),
		Allocation: portfolio.CapitalAllocation(firm.Traders),
		Funnel:     portfolio.ProgramFunnel(firm),
		DailyRisk:  portfolio.DailyRisk(firm.AllTrades()),
		VaR:        portfolio.GroupVaR(firm.Traders, cfg.Analytics.VaRConfidence),
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, report)
	}
	printFirmReport(out, report)
	return nil
}

func runFirmCompare(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ws := newWorkspace(cfg, log)
	firms := make([]contracts.FirmProfile, 0, len(firmFlags))
	for _, arg := range firmFlags {
		id, files, err := parseFirmFlag(arg)
		if err != nil {
			return err
		}
		firm, err := loadFirm(ws, id, id, files, log)
		if err != nil {
			return err
		}
		firms = append(firms, firm)
	}

	cmp := portfolio.CompareFirms(firms)
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return PrintJSON(out, cmp)
	}

	PrintHeader(out, "Firm Comparison")
	widths := []int{12, 8, 9, 8, 8, 10, 10}
	PrintTableHeader(out, []string{"Firm", "Traders", "Win Rate", "Sharpe", "PF", "Cap. Eff.", "Risk Score"}, widths)
	for _, c := range cmp {
		PrintTableRow(out, []string{
			c.FirmID,
			fmt.Sprintf("%d", c.Traders),
			formatPct(c.WinRate),
			formatMetric(c.SharpeRatio),
			formatMetric(c.ProfitFactor),
			formatPct(c.CapitalEfficiency),
			fmt.Sprintf("%.3f", c.RiskScore),
		}, widths)
	}

	PrintSection(out, "Program Funnel (evaluation → funded → profitable)")
	for _, f := range firms {
		fn := portfolio.ProgramFunnel(f)
		PrintKeyValue(out, f.ID, fmt.Sprintf("%d → %d → %d", fn.Evaluation, fn.Funded, fn.Profitable), 12)
	}
	return nil
}

func newWorkspace(cfg *config.Config, log *logger.Logger) *workspace.Workspace {
	return workspace.New(performance.Options{
		Annualization: cfg.Analytics.SharpeAnnualization,
		RiskFreeRate:  cfg.Analytics.RiskFreeRate,
	}, log)
}

// loadFirm registers the firm and one trader per file, then assembles the profile
func loadFirm(ws *workspace.Workspace, id, name string, files []string, log *logger.Logger) (contracts.FirmProfile, error) {
	if err := ws.PutFirm(id, name); err != nil {
		return contracts.FirmProfile{}, err
	}

	traders, err := readTraderFiles(files, log)
	if err != nil {
		return contracts.FirmProfile{}, err
	}
	for _, t := range traders {
		if _, err := ws.PutTrader(id+"/"+t.ID, id, t.Trades); err != nil {
			return contracts.FirmProfile{}, err
		}
	}
	return ws.Firm(id)
}

// parseFirmFlag splits "id=a.csv,b.csv"
func parseFirmFlag(arg string) (string, []string, error) {
	id, list, ok := strings.Cut(arg, "=")
	if !ok || id == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --firm %q, want id=file1,file2", arg)
	}

	files := make([]string, 0)
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return id, files, nil
}

func printFirmReport(w io.Writer, r firmReport) {
	f := r.Firm
	title := f.ID
	if f.Name != "" {
		title = f.Name
	}
	PrintHeader(w, "Firm Report: "+title)

	m := f.AggregateMetrics
	PrintSection(w, "💰 Aggregate")
	PrintKeyValue(w, "Traders", fmt.Sprintf("%d", len(f.Traders)), 14)
	PrintKeyValue(w, "Trades", fmt.Sprintf("%d (%d winners)", m.TotalTrades, m.ProfitableTrades), 14)
	PrintKeyValue(w, "Win Rate", formatPct(m.WinRate), 14)
	PrintKeyValue(w, "Profit Factor", formatMetric(m.ProfitFactor), 14)
	PrintKeyValue(w, "Sharpe Ratio", formatMetric(m.SharpeRatio), 14)
	PrintKeyValue(w, "Max Drawdown", formatMoney(m.MaxDrawdown), 14)
	PrintKeyValue(w, fmt.Sprintf("VaR (%.0f%%)", r.VaR.Confidence*100), formatPct(r.VaR.VaR), 14)

	PrintSection(w, "📊 Exposure")
	widths := []int{10, 14, 14, 14}
	PrintTableHeader(w, []string{"Symbol", "Long", "Short", "Net"}, widths)
	for _, e := range r.Exposure {
		PrintTableRow(w, []string{e.Symbol, formatMoney(e.Long), formatMoney(e.Short), formatMoney(e.Net)}, widths)
	}
	PrintKeyValue(w, "Net Exposure", formatMoney(portfolio.NetExposure(r.Exposure)), 14)

	PrintSection(w, "🏦 Capital")
	widths = []int{16, 14, 10, 10}
	PrintTableHeader(w, []string{"Trader", "Capital", "DD Share", "Efficiency"}, widths)
	for _, a := range r.Allocation.Traders {
		PrintTableRow(w, []string{a.TraderID, formatMoney(a.Capital), formatPct(a.DrawdownShare), formatMetric(a.Efficiency)}, widths)
	}
	PrintKeyValue(w, "Total Capital", formatMoney(r.Allocation.TotalCapital), 14)

	PrintSection(w, "🎯 Program Funnel")
	PrintKeyValue(w, "Evaluation", fmt.Sprintf("%d", r.Funnel.Evaluation), 14)
	PrintKeyValue(w, "Funded", fmt.Sprintf("%d", r.Funnel.Funded), 14)
	PrintKeyValue(w, "Profitable", fmt.Sprintf("%d", r.Funnel.Profitable), 14)

	PrintSection(w, "📅 Daily Risk (Σ|P&L|)")
	for _, d := range r.DailyRisk {
		PrintKeyValue(w, d.Date, formatMoney(d.Value), 14)
	}
	fmt.Fprintln(w)
}
