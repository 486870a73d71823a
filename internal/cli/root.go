package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "promcheck",
	Short: "Consistency checker for Prometheus rules and Grafana dashboards",
	Long: `promcheck validates an observability stack's artifacts against each other:
alerting rules, recording rules, and dashboard queries are checked for
structural correctness, and every metric they reference is cross-checked
against the metrics the instrumented source actually declares.

Hard failures exit nonzero so the checks can gate CI; advisory findings
are reported as warnings and never fail a run.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("promcheck %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
