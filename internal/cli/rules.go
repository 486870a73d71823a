package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/promcheck/internal/report"
	"github.com/valter-silva-au/promcheck/internal/validate"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Validate Prometheus alert and recording rule files",
	Long: `Validate every rule file in the configured rules directory.

Checks rule structure (required fields, naming, severity and annotation
metadata), the PromQL expressions embedded in each rule, and that every
referenced metric exists in the instrumented source.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		rulesDir := resolvePath(Config.RulesDir)
		if _, err := os.Stat(rulesDir); err != nil {
			return fmt.Errorf("alert directory not found: %s", rulesDir)
		}

		reg, err := LoadRegistry()
		if err != nil {
			return fmt.Errorf("loading metric registry: %w", err)
		}

		runner := validate.NewRunner(reg)
		issues, err := runner.ValidateRuleFiles(rulesDir)
		if err != nil {
			return fmt.Errorf("validating rule files: %w", err)
		}

		rep := report.New(issues)
		fmt.Println(rep.Render("PROMETHEUS ALERT RULES VALIDATION REPORT", "alert rules"))

		if !rep.OK() {
			return fmt.Errorf("found %d validation errors", len(rep.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
