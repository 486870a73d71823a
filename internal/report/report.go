// Package report aggregates validation findings into a deterministic,
// human-readable terminal report with errors and warnings sectioned
// separately.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valter-silva-au/promcheck/internal/validate"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

const ruleWidth = 80

// Section and banner styles.
var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	errorHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("196"))

	warnHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// Report holds the aggregated findings of a validation run, deduplicated
// and sorted so identical inputs always render byte-identical output.
type Report struct {
	Errors   []models.Issue
	Warnings []models.Issue
}

// New builds a Report from raw issues: exact-content duplicates collapse,
// and each severity list sorts by file, then context, then check kind,
// then message.
func New(issues []models.Issue) *Report {
	seen := make(map[models.Issue]struct{}, len(issues))
	r := &Report{}
	for _, issue := range issues {
		if _, dup := seen[issue]; dup {
			continue
		}
		seen[issue] = struct{}{}
		if issue.IsError() {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
	sortIssues(r.Errors)
	sortIssues(r.Warnings)
	return r
}

// OK reports whether the run passed: success if and only if there are no
// errors. Warnings never fail a run.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Render produces the full textual report under the given title, ending
// with the pass/fail banner.
func (r *Report) Render(title, subject string) string {
	var b strings.Builder

	writeRule(&b, "=")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	writeRule(&b, "=")
	b.WriteString("\n")

	if len(r.Errors) > 0 {
		b.WriteString(errorHeaderStyle.Render("ERRORS:"))
		b.WriteString("\n")
		writeRule(&b, "-")
		for _, issue := range r.Errors {
			fmt.Fprintf(&b, "  [X] %s\n", issue.String())
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString(warnHeaderStyle.Render("WARNINGS:"))
		b.WriteString("\n")
		writeRule(&b, "-")
		for _, issue := range r.Warnings {
			fmt.Fprintf(&b, "  [!] %s\n", issue.String())
		}
		b.WriteString("\n")
	}

	writeRule(&b, "=")
	b.WriteString(r.banner(subject))
	b.WriteString("\n")
	writeRule(&b, "=")

	return b.String()
}

// banner renders the terminal verdict line.
func (r *Report) banner(subject string) string {
	if !r.OK() {
		return failureStyle.Render(
			fmt.Sprintf("[ERROR] FAILURE: Found %d validation errors", len(r.Errors)))
	}
	if len(r.Warnings) > 0 {
		return successStyle.Render(
			fmt.Sprintf("[OK] SUCCESS: All %s are valid (%d warnings)", subject, len(r.Warnings)))
	}
	return successStyle.Render(
		fmt.Sprintf("[OK] SUCCESS: All %s are valid (no warnings)", subject))
}

// RenderDashboardSummaries renders the per-dashboard metric breakdown and
// the listing of every metric the registry makes available.
func RenderDashboardSummaries(summaries []validate.DashboardSummary, available []string) string {
	var b strings.Builder

	for _, summary := range summaries {
		fmt.Fprintf(&b, "Dashboard: %s\n", summary.File)
		writeRule(&b, "-")
		if len(summary.Missing) > 0 {
			b.WriteString(errorHeaderStyle.Render(
				fmt.Sprintf("  [X] MISSING METRICS (%d):", len(summary.Missing))))
			b.WriteString("\n")
			for _, metric := range summary.Missing {
				fmt.Fprintf(&b, "     - %s\n", metric)
			}
		} else {
			b.WriteString(successStyle.Render(
				fmt.Sprintf("  [OK] All %d metrics are valid", len(summary.Metrics))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(available) > 0 {
		b.WriteString("Available Metrics:\n")
		writeRule(&b, "-")
		for _, metric := range available {
			fmt.Fprintf(&b, "  - %s\n", metric)
		}
	}

	return b.String()
}

func sortIssues(issues []models.Issue) {
	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Context != b.Context {
			return a.Context < b.Context
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

func writeRule(b *strings.Builder, ch string) {
	b.WriteString(strings.Repeat(ch, ruleWidth))
	b.WriteString("\n")
}
