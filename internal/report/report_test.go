package report

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/promcheck/internal/validate"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

func TestNew_SplitsBySeverity(t *testing.T) {
	rep := New([]models.Issue{
		models.Errorf(models.CheckBrackets, "a.yml", "A", "Unbalanced brackets in expression: x("),
		models.Warnf(models.CheckFunction, "a.yml", "A", "Unknown function: foo (might be valid, please verify)"),
	})

	if len(rep.Errors) != 1 || len(rep.Warnings) != 1 {
		t.Errorf("errors/warnings = %d/%d, want 1/1", len(rep.Errors), len(rep.Warnings))
	}
	if rep.OK() {
		t.Error("report with errors must not be OK")
	}
}

func TestNew_DeduplicatesExactContent(t *testing.T) {
	issue := models.Errorf(models.CheckMetricExists, "a.yml", "A", "References non-existent metric 'absurdersql_x'")
	rep := New([]models.Issue{issue, issue, issue})

	if len(rep.Errors) != 1 {
		t.Errorf("error count = %d, want 1 after dedupe", len(rep.Errors))
	}
}

func TestNew_SortsByFileContextKindMessage(t *testing.T) {
	rep := New([]models.Issue{
		models.Errorf(models.CheckStructure, "b.yml", "Z", "m"),
		models.Errorf(models.CheckStructure, "a.yml", "Z", "m"),
		models.Errorf(models.CheckStructure, "a.yml", "A", "m"),
		models.Errorf(models.CheckBrackets, "a.yml", "A", "m"),
	})

	if len(rep.Errors) != 4 {
		t.Fatalf("error count = %d", len(rep.Errors))
	}
	if rep.Errors[0].Kind != models.CheckBrackets {
		t.Errorf("first issue = %v, want brackets before structure within same file/context", rep.Errors[0])
	}
	if rep.Errors[3].File != "b.yml" {
		t.Errorf("last issue = %v, want b.yml last", rep.Errors[3])
	}
}

func TestOK_WarningsNeverFail(t *testing.T) {
	rep := New([]models.Issue{
		models.Warnf(models.CheckAnnotations, "a.yml", "A", "Missing recommended annotation 'summary'"),
	})
	if !rep.OK() {
		t.Error("warnings alone must not fail the run")
	}
}

func TestRender_Sections(t *testing.T) {
	rep := New([]models.Issue{
		models.Errorf(models.CheckMetricExists, "alerts.yml", "Ghost", "References non-existent metric 'absurdersql_x'"),
		models.Warnf(models.CheckAnnotations, "alerts.yml", "Ghost", "Missing recommended annotation 'summary'"),
	})

	out := rep.Render("PROMETHEUS ALERT RULES VALIDATION REPORT", "alert rules")

	for _, want := range []string{
		"PROMETHEUS ALERT RULES VALIDATION REPORT",
		"ERRORS:",
		"  [X] alerts.yml - Ghost: References non-existent metric 'absurdersql_x'",
		"WARNINGS:",
		"  [!] alerts.yml - Ghost: Missing recommended annotation 'summary'",
		"[ERROR] FAILURE: Found 1 validation errors",
		strings.Repeat("=", 80),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRender_SuccessBanners(t *testing.T) {
	clean := New(nil)
	out := clean.Render("T", "alert rules")
	if !strings.Contains(out, "[OK] SUCCESS: All alert rules are valid (no warnings)") {
		t.Errorf("missing clean success banner:\n%s", out)
	}
	if strings.Contains(out, "ERRORS:") || strings.Contains(out, "WARNINGS:") {
		t.Error("clean report should have no section headers")
	}

	warned := New([]models.Issue{
		models.Warnf(models.CheckFunction, "a.yml", "A", "Unknown function: foo (might be valid, please verify)"),
	})
	out = warned.Render("T", "alert rules")
	if !strings.Contains(out, "[OK] SUCCESS: All alert rules are valid (1 warnings)") {
		t.Errorf("missing warning-count banner:\n%s", out)
	}
}

func TestRenderDashboardSummaries(t *testing.T) {
	out := RenderDashboardSummaries([]validate.DashboardSummary{
		{
			File:    "perf.json",
			Metrics: []string{"absurdersql_ghost_total", "absurdersql_queries_total"},
			Missing: []string{"absurdersql_ghost_total"},
		},
		{
			File:    "health.json",
			Metrics: []string{"absurdersql_queries_total"},
		},
	}, []string{"absurdersql_queries_total"})

	for _, want := range []string{
		"Dashboard: perf.json",
		"[X] MISSING METRICS (1):",
		"     - absurdersql_ghost_total",
		"Dashboard: health.json",
		"[OK] All 1 metrics are valid",
		"Available Metrics:",
		"  - absurdersql_queries_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDashboardSummaries_NoAvailableSection(t *testing.T) {
	out := RenderDashboardSummaries([]validate.DashboardSummary{
		{File: "perf.json", Metrics: []string{"absurdersql_queries_total"}},
	}, nil)

	if strings.Contains(out, "Available Metrics:") {
		t.Error("available section should be omitted when no listing requested")
	}
}
