package models

// Expression is a raw PromQL query string tagged with where it came from.
type Expression struct {
	Text string
	// File is the base name of the originating rule or dashboard file.
	File string
	// Path locates the expression inside the document: an alert/record
	// name for rule files, or a dotted/indexed path such as
	// "panels[2].queries[0]" for dashboards.
	Path string
}

// Context renders the expression's location for use in issue contexts.
func (e Expression) Context() string {
	return e.Path
}

// LoadedDashboard is the result of loading one dashboard file: the queries
// that could be extracted plus any file-level loading issues.
type LoadedDashboard struct {
	File    string
	Queries []Expression
	Issues  []Issue
}
