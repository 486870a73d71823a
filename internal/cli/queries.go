package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/promcheck/internal/report"
	"github.com/valter-silva-au/promcheck/internal/validate"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Validate PromQL syntax in dashboard queries",
	Long: `Run the structural PromQL checks on every query extracted from the
configured dashboards directory: bracket balance, known function usage,
range vector selectors, histogram_quantile arguments, and label matcher
syntax. No metric cross-referencing is performed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		dashboardsDir := resolvePath(Config.DashboardsDir)
		if _, err := os.Stat(dashboardsDir); err != nil {
			return fmt.Errorf("dashboard directory not found: %s", dashboardsDir)
		}

		runner := validate.NewSyntaxRunner()
		issues, err := runner.ValidateDashboardQueries(dashboardsDir)
		if err != nil {
			return fmt.Errorf("validating queries: %w", err)
		}

		rep := report.New(issues)
		fmt.Println(rep.Render("PROMQL SYNTAX VALIDATION REPORT", "PromQL queries"))

		if !rep.OK() {
			return fmt.Errorf("found %d PromQL syntax errors", len(rep.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}
