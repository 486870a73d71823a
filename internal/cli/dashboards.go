package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/promcheck/internal/report"
	"github.com/valter-silva-au/promcheck/internal/validate"
)

var dashboardsListMetrics bool

var dashboardsCmd = &cobra.Command{
	Use:   "dashboards",
	Short: "Validate Grafana dashboard metric references",
	Long: `Extract every PromQL query from the configured dashboards directory and
verify that the metrics it references exist in the instrumented source,
accounting for the _bucket/_sum/_count series histograms derive.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		dashboardsDir := resolvePath(Config.DashboardsDir)
		if _, err := os.Stat(dashboardsDir); err != nil {
			return fmt.Errorf("dashboard directory not found: %s", dashboardsDir)
		}

		reg, err := LoadRegistry()
		if err != nil {
			return fmt.Errorf("loading metric registry: %w", err)
		}

		runner := validate.NewRunner(reg)
		summaries, issues, err := runner.ValidateDashboardMetrics(dashboardsDir)
		if err != nil {
			return fmt.Errorf("validating dashboards: %w", err)
		}

		rep := report.New(issues)
		fmt.Println(rep.Render("GRAFANA DASHBOARD VALIDATION REPORT", "dashboards"))

		var available []string
		if dashboardsListMetrics {
			available = reg.Names()
		}
		fmt.Println(report.RenderDashboardSummaries(summaries, available))

		if !rep.OK() {
			return fmt.Errorf("found %d validation errors", len(rep.Errors))
		}
		return nil
	},
}

func init() {
	dashboardsCmd.Flags().BoolVar(&dashboardsListMetrics, "list-metrics", true,
		"print the metrics the registry makes available")
	rootCmd.AddCommand(dashboardsCmd)
}
