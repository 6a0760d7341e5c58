package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fitsync/fitsync/internal/config"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"doctor"},
	Short:   "Verify credentials and configuration without syncing",
	Long: `Check that all five required secrets are present in the environment and
that the configuration file (if any) parses and validates. No network
calls are made.

Example:
  fitsync check`,
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

// CheckResult represents the result of one check
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	results := []CheckResult{
		checkCredentials(),
		checkConfigFile(),
	}

	if globalFlags.JSON {
		return outputCheckResultsJSON(os.Stdout, results)
	}
	return outputCheckResults(results)
}

func checkCredentials() CheckResult {
	result := CheckResult{Name: "Credentials", Status: "OK"}

	creds, err := config.LoadCredentials()
	if err != nil {
		result.Status = "FAIL"
		result.Message = err.Error()
		return result
	}

	result.Message = fmt.Sprintf("all five secrets present (client id %s…)", firstN(creds.FitbitClientID, 4))
	return result
}

func checkConfigFile() CheckResult {
	result := CheckResult{Name: "Configuration", Status: "OK"}

	if globalFlags.Config == "" {
		result.Message = "no config file, using defaults"
		return result
	}

	cfg, err := config.Load(globalFlags.Config)
	if err != nil {
		result.Status = "FAIL"
		result.Message = err.Error()
		return result
	}

	result.Message = fmt.Sprintf("valid: window %d days, %d refresh attempts", cfg.Sync.WindowDays, cfg.Token.RetryAttempts)
	return result
}

func outputCheckResultsJSON(w io.Writer, results []CheckResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	for _, r := range results {
		if r.Status == "FAIL" {
			return fmt.Errorf("check failed")
		}
	}
	return nil
}

func outputCheckResults(results []CheckResult) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tMESSAGE")

	allPassed := true
	for _, r := range results {
		statusIcon := "✓"
		if r.Status == "FAIL" {
			statusIcon = "✗"
			allPassed = false
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, statusIcon+" "+r.Status, r.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("✗ Some checks failed. Please review the output above.")
		return fmt.Errorf("check failed")
	}
	fmt.Println("✓ All checks passed!")
	return nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
