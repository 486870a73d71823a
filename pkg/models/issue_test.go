package models

import "testing"

func TestIssueString_WithContext(t *testing.T) {
	issue := Errorf(CheckMetricExists, "alerts.yml", "HighLatency",
		"References non-existent metric '%s'", "absurdersql_missing_total")

	want := "alerts.yml - HighLatency: References non-existent metric 'absurdersql_missing_total'"
	if got := issue.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIssueString_WithoutContext(t *testing.T) {
	issue := Errorf(CheckInput, "broken.yml", "", "Invalid YAML - mapping values are not allowed")

	want := "broken.yml: Invalid YAML - mapping values are not allowed"
	if got := issue.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIssueSeverity(t *testing.T) {
	err := Errorf(CheckBrackets, "f.yml", "a", "Unbalanced brackets in expression: x(")
	if !err.IsError() {
		t.Error("Errorf issue should be an error")
	}

	warn := Warnf(CheckFunction, "f.yml", "a", "Unknown function: frobnicate (might be valid, please verify)")
	if warn.IsError() {
		t.Error("Warnf issue should not be an error")
	}
	if warn.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want %q", warn.Severity, SeverityWarning)
	}
}

func TestRuleKind(t *testing.T) {
	alert := Rule{HasAlert: true, Alert: "HighLatency"}
	if !alert.IsAlerting() || alert.IsRecording() {
		t.Error("rule with alert key should be alerting only")
	}

	record := Rule{HasRecord: true, Record: "cluster:cpu:rate5m"}
	if record.IsAlerting() || !record.IsRecording() {
		t.Error("rule with record key should be recording only")
	}
}

func TestRuleName_Fallback(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{"alert name wins", Rule{Alert: "HighLatency"}, "HighLatency"},
		{"record name", Rule{Record: "cluster:cpu:rate5m"}, "cluster:cpu:rate5m"},
		{"anonymous falls back to group", Rule{}, "latency_alerts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Name("latency_alerts"); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
