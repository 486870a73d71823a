// Package core contains the configuration layer for promcheck: loading,
// defaulting, and validating the .promcheckrc settings that point the
// validators at their inputs.
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/valter-silva-au/promcheck/pkg/models"
)

// validPrefixPattern matches lowercase alphanumeric metric prefixes.
var validPrefixPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ConfigurationManager defines the interface for loading and validating
// the checker configuration from a .promcheckrc file.
type ConfigurationManager interface {
	LoadConfig() (*models.CheckConfig, error)
	ValidateConfig(cfg *models.CheckConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the root directory where .promcheckrc resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a CheckConfig populated with the conventional
// input locations.
func DefaultConfig() *models.CheckConfig {
	return &models.CheckConfig{
		RulesDir:      "monitoring/prometheus",
		DashboardsDir: "monitoring/grafana/dashboards",
		MetricsSource: "src/telemetry/metrics.rs",
		MetricPrefix:  "absurdersql",
	}
}

// LoadConfig reads the .promcheckrc file from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.CheckConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".promcheckrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("paths.rules", cfg.RulesDir)
	v.SetDefault("paths.dashboards", cfg.DashboardsDir)
	v.SetDefault("paths.metrics_source", cfg.MetricsSource)
	v.SetDefault("metrics.prefix", cfg.MetricPrefix)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use the conventional defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .promcheckrc: %w", err)
	}

	cfg.RulesDir = v.GetString("paths.rules")
	cfg.DashboardsDir = v.GetString("paths.dashboards")
	cfg.MetricsSource = v.GetString("paths.metrics_source")
	cfg.MetricPrefix = v.GetString("metrics.prefix")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns
// a clear error message identifying every problem at once.
func (cm *viperConfigManager) ValidateConfig(cfg *models.CheckConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.RulesDir == "" {
		errs = append(errs, "paths.rules must not be empty")
	}
	if cfg.DashboardsDir == "" {
		errs = append(errs, "paths.dashboards must not be empty")
	}
	if cfg.MetricsSource == "" {
		errs = append(errs, "paths.metrics_source must not be empty")
	}

	if cfg.MetricPrefix == "" {
		errs = append(errs, "metrics.prefix must not be empty")
	} else if !validPrefixPattern.MatchString(cfg.MetricPrefix) {
		errs = append(errs, fmt.Sprintf(
			"metrics.prefix %q is invalid, must match [a-z][a-z0-9]*",
			cfg.MetricPrefix,
		))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
