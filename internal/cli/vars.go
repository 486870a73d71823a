package cli

import (
	"path/filepath"

	"github.com/valter-silva-au/promcheck/internal/registry"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// RegistryLoader loads the metric registry from the instrumentation
// source file configured for the run.
type RegistryLoader func() (*registry.Registry, error)

// Service instances, set during app initialization in app.go.
var (
	BasePath     string
	Config       *models.CheckConfig
	LoadRegistry RegistryLoader
)

// resolvePath anchors a configured relative path at the base path.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(BasePath, path)
}
