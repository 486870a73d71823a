package promql

import (
	"regexp"
	"sort"
	"strings"

	"github.com/valter-silva-au/promcheck/internal/registry"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// Resolver cross-references the metric identifiers mentioned in an
// expression against the registry of declared metrics. It holds the
// registry by reference; the registry is immutable, so a single Resolver
// is safe for concurrent use across files.
type Resolver struct {
	registry *registry.Registry
	pattern  *regexp.Regexp
}

// histogramSuffixes are stripped from an identifier before the fallback
// lookup, so derived series resolve through their base metric.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// NewResolver creates a Resolver bound to the given registry.
func NewResolver(reg *registry.Registry) *Resolver {
	pattern := regexp.MustCompile(
		`\b(` + regexp.QuoteMeta(reg.Prefix()) + `_[a-z_]+(?:_bucket|_sum|_count)?)\b`)
	return &Resolver{registry: reg, pattern: pattern}
}

// Resolve extracts every metric identifier in the expression and reports
// an error for each one that is neither registered directly nor, after
// stripping a histogram suffix, registered as a base metric. Resolution is
// independent per expression: a failure here never affects siblings.
func (r *Resolver) Resolve(expr models.Expression) []models.Issue {
	var issues []models.Issue
	for _, metric := range r.MetricsIn(expr.Text) {
		if r.Resolves(metric) {
			continue
		}
		issues = append(issues, models.Errorf(models.CheckMetricExists, expr.File, expr.Context(),
			"References non-existent metric '%s'", metric))
	}
	return issues
}

// Resolves reports whether a single metric identifier is registered,
// either directly or through its suffix-stripped histogram base.
func (r *Resolver) Resolves(metric string) bool {
	return r.registry.Has(metric) || r.registry.Has(stripHistogramSuffixes(metric))
}

// MetricsIn returns the sorted set of metric identifiers matching the
// naming convention found in the expression text.
func (r *Resolver) MetricsIn(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	metrics := make([]string, 0, len(seen))
	for m := range seen {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	return metrics
}

func stripHistogramSuffixes(name string) string {
	for _, suffix := range histogramSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return name
}
