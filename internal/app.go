// Package internal provides the App struct that wires all components of
// promcheck together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/promcheck/internal/cli"
	"github.com/valter-silva-au/promcheck/internal/core"
	"github.com/valter-silva-au/promcheck/internal/registry"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// App holds the service dependencies for a promcheck run.
type App struct {
	BasePath string

	ConfigMgr core.ConfigurationManager
	Config    *models.CheckConfig
}

// NewApp creates and wires all components. basePath is the repository
// root the configured input paths are resolved against.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.LoadRegistry = func() (*registry.Registry, error) {
		path := cfg.MetricsSource
		if !filepath.IsAbs(path) {
			path = filepath.Join(basePath, path)
		}
		return registry.Load(path, cfg.MetricPrefix)
	}

	return app, nil
}

// ResolveBasePath determines the repository root the checker runs
// against. It checks the PROMCHECK_HOME env var, then walks up from the
// current directory looking for a .promcheckrc, falling back to cwd.
func ResolveBasePath() string {
	if home := os.Getenv("PROMCHECK_HOME"); home != "" {
		return home
	}

	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".promcheckrc")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	cwd, _ := os.Getwd()
	return cwd
}
