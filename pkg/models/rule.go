package models

// RuleFile is the on-disk schema of a Prometheus rule file.
type RuleFile struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named, ordered collection of alerting and recording rules.
// Grouping is preserved for report context only; validation is per rule.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a single rules[] entry. Exactly one of Alert or Record is set;
// the loader decides which kind a raw document is by key presence, so the
// Has* flags record whether a key existed at all (a present-but-empty
// value is not the same as a missing key for structural validation).
type Rule struct {
	Alert       string            `yaml:"alert,omitempty"`
	Record      string            `yaml:"record,omitempty"`
	Expr        string            `yaml:"expr,omitempty"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`

	HasAlert       bool `yaml:"-"`
	HasRecord      bool `yaml:"-"`
	HasExpr        bool `yaml:"-"`
	HasLabels      bool `yaml:"-"`
	HasAnnotations bool `yaml:"-"`
}

// IsAlerting reports whether the rule document carried an alert key.
func (r Rule) IsAlerting() bool { return r.HasAlert }

// IsRecording reports whether the rule document carried a record key.
func (r Rule) IsRecording() bool { return r.HasRecord && !r.HasAlert }

// Name returns the alert or record name for report context, falling back
// to the group name when the rule is anonymous.
func (r Rule) Name(groupName string) string {
	switch {
	case r.Alert != "":
		return r.Alert
	case r.Record != "":
		return r.Record
	default:
		return groupName
	}
}

// LoadedRules is the result of loading one rule file: the rules that could
// be extracted plus any file-level loading issues.
type LoadedRules struct {
	File   string
	Groups []RuleGroup
	Issues []Issue
}
