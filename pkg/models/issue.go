package models

import "fmt"

// Severity classifies a validation finding as blocking or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// CheckKind identifies which validation check produced an issue. The kind
// participates in the report sort key so findings order deterministically.
type CheckKind string

const (
	CheckInput         CheckKind = "input"
	CheckStructure     CheckKind = "structure"
	CheckNaming        CheckKind = "naming"
	CheckSeverityLabel CheckKind = "severity"
	CheckAnnotations   CheckKind = "annotations"
	CheckEmptyExpr     CheckKind = "empty_expr"
	CheckBrackets      CheckKind = "brackets"
	CheckFunction      CheckKind = "function"
	CheckRangeVector   CheckKind = "range_vector"
	CheckQuantile      CheckKind = "quantile"
	CheckLabelMatcher  CheckKind = "label_matcher"
	CheckMetricExists  CheckKind = "metric_exists"
	CheckRecordingName CheckKind = "recording_name"
)

// Issue is a single validation finding. Issues are pure values with no
// identity beyond their content; two issues with equal fields are the same
// finding.
type Issue struct {
	Severity Severity
	Kind     CheckKind
	File     string
	// Context names the rule, alert, group, or dashboard path the issue
	// was found in. Empty for file-level findings.
	Context string
	Message string
}

// IsError reports whether the issue is a hard failure.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// String renders the issue the way it appears in the textual report.
func (i Issue) String() string {
	if i.Context == "" {
		return fmt.Sprintf("%s: %s", i.File, i.Message)
	}
	return fmt.Sprintf("%s - %s: %s", i.File, i.Context, i.Message)
}

// Errorf constructs an error-severity issue.
func Errorf(kind CheckKind, file, context, format string, args ...any) Issue {
	return Issue{
		Severity: SeverityError,
		Kind:     kind,
		File:     file,
		Context:  context,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf constructs a warning-severity issue.
func Warnf(kind CheckKind, file, context, format string, args ...any) Issue {
	return Issue{
		Severity: SeverityWarning,
		Kind:     kind,
		File:     file,
		Context:  context,
		Message:  fmt.Sprintf(format, args...),
	}
}
