package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/analytics"
	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/ingest"
	"github.com/wonny/tradelens/internal/validation"
	"github.com/wonny/tradelens/pkg/config"
	"github.com/wonny/tradelens/pkg/logger"
)

var (
	// Global flags
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradelens",
	Short: "Trading performance analytics",
	Long: `tradelens Unified CLI

Validates uploaded trade files (.json, .csv) and computes performance,
risk, correlation and behavior analytics for traders and firms.

Usage:
  go run ./cmd/tradelens [command]

Examples:
  go run ./cmd/tradelens analyze trades.csv
  go run ./cmd/tradelens validate trades.json
  go run ./cmd/tradelens correlate alice.csv bob.csv
  go run ./cmd/tradelens compliance trades.csv --firm-config firm.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text|json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}

// setup loads config and builds the logger shared by every command
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if outputFormat != "text" && outputFormat != "json" {
		return nil, nil, fmt.Errorf("unknown output format %q (text|json)", outputFormat)
	}
	return cfg, logger.New(cfg), nil
}

// newAnalyzer builds the facade from config
func newAnalyzer(cfg *config.Config, log *logger.Logger) (*analytics.Analyzer, error) {
	a, err := analytics.NewAnalyzer(analytics.OptionsFromConfig(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("init analyzer: %w", err)
	}
	return a, nil
}

// readCandidates parses an upload file into raw records
func readCandidates(path string) ([]validation.CandidateTrade, error) {
	up, err := ingest.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return up.Records, nil
}

// readTrades parses and validates an upload file, warning about rejected records
func readTrades(path string, log *logger.Logger) ([]contracts.Trade, error) {
	candidates, err := readCandidates(path)
	if err != nil {
		return nil, err
	}

	trades, failures := validation.Partition(candidates)
	if len(failures) > 0 {
		log.WithFields(map[string]interface{}{
			"file":     path,
			"rejected": len(failures),
			"total":    len(candidates),
		}).Warn("Skipped invalid trade records")
	}
	return trades, nil
}

// traderID names a trader after its upload file
func traderID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fileExists reports whether path can be stat'ed
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
