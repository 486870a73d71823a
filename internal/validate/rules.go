// Package validate applies the structural rule checks and orchestrates
// per-file validation runs against the shared metric registry.
package validate

import (
	"regexp"

	"github.com/valter-silva-au/promcheck/pkg/models"
)

// alertNamePattern is the required shape of an alert name.
var alertNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// recordingNamePattern is the recommended level:metric:operation shape of
// a recording rule name.
var recordingNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*:[a-z][a-z0-9_]*:[a-z0-9]+$`)

// knownSeverities are the conventional severity label values. Others are
// tolerated with a warning since operators may use custom severities
// deliberately.
var knownSeverities = map[string]struct{}{
	"critical": {},
	"warning":  {},
	"info":     {},
}

// requiredAlertFields lists the keys every alerting rule must carry, in
// report order.
var requiredAlertFields = []struct {
	name    string
	present func(models.Rule) bool
}{
	{"alert", func(r models.Rule) bool { return r.HasAlert }},
	{"expr", func(r models.Rule) bool { return r.HasExpr }},
	{"labels", func(r models.Rule) bool { return r.HasLabels }},
	{"annotations", func(r models.Rule) bool { return r.HasAnnotations }},
}

// recommendedAnnotations are the annotation keys an alert should carry.
var recommendedAnnotations = []string{"summary", "description"}

// ValidateAlertRule checks one alerting rule's structure. A missing
// required field short-circuits the remaining structural checks for the
// rule; its expression is still analyzed separately by the caller.
func ValidateAlertRule(rule models.Rule, group, file string) []models.Issue {
	var issues []models.Issue

	complete := true
	for _, field := range requiredAlertFields {
		if !field.present(rule) {
			issues = append(issues, models.Errorf(models.CheckStructure, file, group,
				"Alert missing required field '%s'", field.name))
			complete = false
		}
	}
	if !complete {
		return issues
	}

	if !alertNamePattern.MatchString(rule.Alert) {
		issues = append(issues, models.Errorf(models.CheckNaming, file, group,
			"Invalid alert name '%s'", rule.Alert))
	}

	severity, ok := rule.Labels["severity"]
	if !ok {
		issues = append(issues, models.Errorf(models.CheckSeverityLabel, file, rule.Alert,
			"Missing 'severity' label"))
	} else if _, known := knownSeverities[severity]; !known {
		issues = append(issues, models.Warnf(models.CheckSeverityLabel, file, rule.Alert,
			"Unusual severity '%s' (expected critical/warning/info)", severity))
	}

	for _, annotation := range recommendedAnnotations {
		if _, ok := rule.Annotations[annotation]; !ok {
			issues = append(issues, models.Warnf(models.CheckAnnotations, file, rule.Alert,
				"Missing recommended annotation '%s'", annotation))
		}
	}

	return issues
}

// ValidateRecordingRule checks one recording rule: expr is required, and
// the record name should follow the level:metric:operation convention.
// Naming deviation is only a warning; some ecosystems tolerate it.
func ValidateRecordingRule(rule models.Rule, group, file string) []models.Issue {
	var issues []models.Issue

	if !rule.HasExpr {
		issues = append(issues, models.Errorf(models.CheckStructure, file, group,
			"Recording rule missing 'expr'"))
		return issues
	}

	if !recordingNamePattern.MatchString(rule.Record) {
		issues = append(issues, models.Warnf(models.CheckRecordingName, file, group,
			"Recording rule '%s' doesn't follow naming convention (level:metric:operation)", rule.Record))
	}

	return issues
}
