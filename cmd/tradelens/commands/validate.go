package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tradelens/internal/validation"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an upload against the trade rules",
	Long: `Runs every validation rule on every record and lists all failures.
Nothing is analyzed. Exits non-zero when any record is invalid.

Example:
  go run ./cmd/tradelens validate trades.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validationSummary JSON form of the validate command
type validationSummary struct {
	File     string           `json:"file"`
	Total    int              `json:"total"`
	Valid    int              `json:"valid"`
	Invalid  int              `json:"invalid"`
	Failures map[int][]string `json:"failures"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, _, err := setup(); err != nil {
		return err
	}

	candidates, err := readCandidates(args[0])
	if err != nil {
		return err
	}

	failures := validation.ValidateBatch(candidates)
	summary := validationSummary{
		File:     args[0],
		Total:    len(candidates),
		Valid:    len(candidates) - len(failures),
		Invalid:  len(failures),
		Failures: failures,
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := PrintJSON(out, summary); err != nil {
			return err
		}
	} else {
		PrintHeader(out, "Trade Validation")
		PrintKeyValue(out, "File", summary.File, 8)
		PrintKeyValue(out, "Records", fmt.Sprintf("%d", summary.Total), 8)
		PrintKeyValue(out, "Valid", fmt.Sprintf("%d", summary.Valid), 8)
		PrintKeyValue(out, "Invalid", fmt.Sprintf("%d", summary.Invalid), 8)
		PrintSeparator(out)
		if summary.Invalid == 0 {
			PrintSuccess(out, "All records are valid")
		} else {
			printFailures(out, failures)
		}
	}

	if summary.Invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", summary.Invalid, summary.Total)
	}
	return nil
}
