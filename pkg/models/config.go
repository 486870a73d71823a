package models

// CheckConfig holds settings read from .promcheckrc via Viper. All fields
// have defaults; a missing config file is not an error.
type CheckConfig struct {
	// RulesDir is the directory containing Prometheus rule files.
	RulesDir string `yaml:"rules_dir" mapstructure:"rules_dir"`
	// DashboardsDir is the directory containing Grafana dashboard JSON.
	DashboardsDir string `yaml:"dashboards_dir" mapstructure:"dashboards_dir"`
	// MetricsSource is the instrumentation source file metric names are
	// extracted from.
	MetricsSource string `yaml:"metrics_source" mapstructure:"metrics_source"`
	// MetricPrefix is the fixed naming prefix all checked metrics share.
	MetricPrefix string `yaml:"metric_prefix" mapstructure:"metric_prefix"`
}
