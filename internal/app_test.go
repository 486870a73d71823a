package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/promcheck/internal/cli"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestNewApp_DefaultsWithoutConfigFile(t *testing.T) {
	base := t.TempDir()

	app, err := NewApp(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.Config.RulesDir != "monitoring/prometheus" {
		t.Errorf("RulesDir = %q, want default", app.Config.RulesDir)
	}
	if app.Config.MetricPrefix != "absurdersql" {
		t.Errorf("MetricPrefix = %q, want default", app.Config.MetricPrefix)
	}
}

func TestNewApp_WiresCLIServices(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "src/telemetry/metrics.rs", `counter!("absurdersql_queries_total");`)

	if _, err := NewApp(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cli.BasePath != base {
		t.Errorf("cli.BasePath = %q, want %q", cli.BasePath, base)
	}
	if cli.Config == nil {
		t.Fatal("cli.Config not wired")
	}

	reg, err := cli.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if !reg.Has("absurdersql_queries_total") {
		t.Error("registry should contain the fixture metric")
	}
}

func TestNewApp_InvalidConfigRejected(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, ".promcheckrc", `
metrics:
  prefix: "Not_Valid"
`)

	_, err := NewApp(base)
	if err == nil {
		t.Fatal("expected error for invalid prefix")
	}
	if !strings.Contains(err.Error(), "metrics.prefix") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveBasePath_EnvOverride(t *testing.T) {
	t.Setenv("PROMCHECK_HOME", "/custom/root")

	if got := ResolveBasePath(); got != "/custom/root" {
		t.Errorf("ResolveBasePath() = %q, want env override", got)
	}
}

func TestResolveBasePath_WalksUpToConfigFile(t *testing.T) {
	t.Setenv("PROMCHECK_HOME", "")

	base := t.TempDir()
	writeFile(t, base, ".promcheckrc", "")
	nested := filepath.Join(base, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(nested)

	got := ResolveBasePath()
	// Temp paths may go through symlinks; compare resolved forms.
	wantResolved, _ := filepath.EvalSymlinks(base)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("ResolveBasePath() = %q, want %q", got, base)
	}
}

func TestResolveBasePath_FallsBackToCwd(t *testing.T) {
	t.Setenv("PROMCHECK_HOME", "")

	dir := t.TempDir()
	t.Chdir(dir)

	got := ResolveBasePath()
	wantResolved, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("ResolveBasePath() = %q, want cwd %q", got, dir)
	}
}
