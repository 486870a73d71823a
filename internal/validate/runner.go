package validate

import (
	"sort"
	"sync"

	"github.com/valter-silva-au/promcheck/internal/loader"
	"github.com/valter-silva-au/promcheck/internal/promql"
	"github.com/valter-silva-au/promcheck/internal/registry"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// Runner validates rule and dashboard files against a shared, read-only
// metric registry. Files are processed concurrently, one goroutine per
// file; results are merged by file index, so for fixed inputs the issue
// stream is identical run to run.
type Runner struct {
	analyzer *promql.Analyzer
	resolver *promql.Resolver
	exclude  loader.PathPredicate
}

// NewRunner creates a Runner bound to the given registry. Dashboard
// queries under a "targets" path segment are excluded from extraction so
// template-variable definitions are not double-counted.
func NewRunner(reg *registry.Registry) *Runner {
	return &Runner{
		analyzer: promql.NewAnalyzer(),
		resolver: promql.NewResolver(reg),
		exclude:  loader.ExcludeSegment("targets"),
	}
}

// NewSyntaxRunner creates a Runner for structural query checks only. It
// carries no registry, so only ValidateDashboardQueries may be called.
func NewSyntaxRunner() *Runner {
	return &Runner{
		analyzer: promql.NewAnalyzer(),
		exclude:  loader.ExcludeSegment("targets"),
	}
}

// DashboardSummary reports, per dashboard, the metric identifiers its
// queries reference and which of those are missing from the registry.
type DashboardSummary struct {
	File    string
	Metrics []string
	Missing []string
}

// ValidateRuleFiles validates every rule file in dir: structural checks,
// expression analysis, and metric resolution. A missing directory is a
// fatal input error; an empty one is a finding.
func (r *Runner) ValidateRuleFiles(dir string) ([]models.Issue, error) {
	files, err := loader.ListRuleFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []models.Issue{
			models.Errorf(models.CheckInput, dir, "", "No alert rule files found in %s", dir),
		}, nil
	}

	perFile := r.forEachFile(files, r.validateRuleFile)
	return mergeIssues(perFile), nil
}

// ValidateDashboardMetrics cross-references every dashboard query's
// metrics against the registry and returns per-dashboard summaries
// alongside the issue list.
func (r *Runner) ValidateDashboardMetrics(dir string) ([]DashboardSummary, []models.Issue, error) {
	files, err := loader.ListDashboardFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	summaries := make([]DashboardSummary, len(files))
	perFile := make([][]models.Issue, len(files))

	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			summaries[i], perFile[i] = r.validateDashboardMetrics(path)
		}(i, path)
	}
	wg.Wait()

	return summaries, mergeIssues(perFile), nil
}

// ValidateDashboardQueries runs the structural expression checks on every
// dashboard query without touching the registry.
func (r *Runner) ValidateDashboardQueries(dir string) ([]models.Issue, error) {
	files, err := loader.ListDashboardFiles(dir)
	if err != nil {
		return nil, err
	}

	perFile := r.forEachFile(files, r.validateDashboardQueries)
	return mergeIssues(perFile), nil
}

// forEachFile runs fn once per file concurrently and returns the issue
// lists in file order.
func (r *Runner) forEachFile(files []string, fn func(string) []models.Issue) [][]models.Issue {
	perFile := make([][]models.Issue, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			perFile[i] = fn(path)
		}(i, path)
	}
	wg.Wait()
	return perFile
}

// validateRuleFile loads one rule file and validates every rule in it.
// Each rule is independent: a finding in one alert never blocks siblings.
func (r *Runner) validateRuleFile(path string) []models.Issue {
	loaded := loader.LoadRuleFile(path)
	issues := loaded.Issues

	for _, group := range loaded.Groups {
		for _, rule := range group.Rules {
			switch {
			case rule.IsAlerting():
				issues = append(issues, ValidateAlertRule(rule, group.Name, loaded.File)...)
			case rule.IsRecording():
				issues = append(issues, ValidateRecordingRule(rule, group.Name, loaded.File)...)
			default:
				continue
			}

			if !rule.HasExpr {
				continue
			}
			expr := models.Expression{
				Text: rule.Expr,
				File: loaded.File,
				Path: rule.Name(group.Name),
			}
			valid, exprIssues := r.analyzer.Analyze(expr)
			issues = append(issues, exprIssues...)
			if valid {
				issues = append(issues, r.resolver.Resolve(expr)...)
			}
		}
	}

	return issues
}

// validateDashboardMetrics resolves the metrics referenced by one
// dashboard and summarizes what was used and what is missing.
func (r *Runner) validateDashboardMetrics(path string) (DashboardSummary, []models.Issue) {
	loaded := loader.LoadDashboard(path, r.exclude)
	issues := loaded.Issues

	used := make(map[string]struct{})
	missing := make(map[string]struct{})
	for _, query := range loaded.Queries {
		for _, metric := range r.resolver.MetricsIn(query.Text) {
			used[metric] = struct{}{}
			if !r.resolver.Resolves(metric) {
				missing[metric] = struct{}{}
			}
		}
		issues = append(issues, r.resolver.Resolve(query)...)
	}

	summary := DashboardSummary{
		File:    loaded.File,
		Metrics: sortedSet(used),
		Missing: sortedSet(missing),
	}
	return summary, issues
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// validateDashboardQueries analyzes the structure of one dashboard's
// queries.
func (r *Runner) validateDashboardQueries(path string) []models.Issue {
	loaded := loader.LoadDashboard(path, r.exclude)
	issues := loaded.Issues

	for _, query := range loaded.Queries {
		_, exprIssues := r.analyzer.Analyze(query)
		issues = append(issues, exprIssues...)
	}

	return issues
}

func mergeIssues(perFile [][]models.Issue) []models.Issue {
	var merged []models.Issue
	for _, issues := range perFile {
		merged = append(merged, issues...)
	}
	return merged
}
