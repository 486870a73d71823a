package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/promcheck/internal/registry"
)

func TestQueriesCmd_NilConfig(t *testing.T) {
	origConfig := Config
	defer func() { Config = origConfig }()
	Config = nil

	err := queriesCmd.RunE(queriesCmd, []string{})
	if err == nil {
		t.Fatal("expected error when Config is nil")
	}
}

func TestQueriesCmd_MissingDirectory(t *testing.T) {
	setupCLI(t, "")

	err := queriesCmd.RunE(queriesCmd, []string{})
	if err == nil {
		t.Fatal("expected error for missing dashboards directory")
	}
	if !strings.Contains(err.Error(), "dashboard directory not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQueriesCmd_SyntaxErrorFailsRun(t *testing.T) {
	base := setupCLI(t, "")
	writeFixture(t, base, "monitoring/grafana/dashboards/perf.json", `{
  "panels": [{"expr": "sum(rate(absurdersql_queries_total[5m])"}]
}`)

	err := queriesCmd.RunE(queriesCmd, []string{})
	if err == nil {
		t.Fatal("expected error for unbalanced brackets")
	}
	if !strings.Contains(err.Error(), "PromQL syntax errors") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQueriesCmd_DoesNotTouchRegistry(t *testing.T) {
	base := setupCLI(t, "")
	// Queries referencing metrics absent from the registry still pass:
	// syntax validation never resolves metrics, and the registry loader
	// must not even be called.
	called := false
	LoadRegistry = func() (*registry.Registry, error) {
		called = true
		return registry.Extract("", "absurdersql"), nil
	}
	writeFixture(t, base, "monitoring/grafana/dashboards/perf.json", `{
  "panels": [{"expr": "rate(absurdersql_ghost_total[5m])"}]
}`)

	if err := queriesCmd.RunE(queriesCmd, []string{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if called {
		t.Error("queries command must not load the metric registry")
	}
}
