// Package registry builds the canonical set of metric names declared by the
// instrumented system. Extraction is purely lexical: any quoted literal in
// the instrumentation source that matches the metric naming convention is a
// declared metric, regardless of the surrounding code.
package registry

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Registry is an immutable set of declared metric names, including the
// derived series synthesized for duration-style histogram metrics. Built
// once per run and shared read-only by all validation goroutines.
type Registry struct {
	prefix string
	names  map[string]struct{}
}

// durationMarkers are the unit suffix tokens that flag a metric as a
// duration histogram. A metric containing one of these also exposes the
// unit-stripped base plus the _bucket/_sum/_count series Prometheus
// synthesizes for histograms.
var durationMarkers = []string{"_ms", "_seconds"}

// histogramSuffixes are the series derived from a histogram base metric.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Extract scans instrumentation source text and returns the registry of
// declared metric names. Empty input yields an empty registry, never an
// error; missing metrics surface later as resolution failures.
func Extract(source, prefix string) *Registry {
	r := &Registry{
		prefix: prefix,
		names:  make(map[string]struct{}),
	}

	pattern := regexp.MustCompile(`"(` + regexp.QuoteMeta(prefix) + `_[a-z_]+)"`)
	for _, m := range pattern.FindAllStringSubmatch(source, -1) {
		r.add(m[1])
	}

	// Histogram metrics expose derived series alongside the declared name.
	for _, name := range r.snapshot() {
		if !hasDurationMarker(name) {
			continue
		}
		base := stripDurationMarkers(name)
		r.add(base)
		for _, suffix := range histogramSuffixes {
			r.add(base + suffix)
		}
	}

	return r
}

// Load reads the instrumentation source file at path and extracts its
// registry. A missing or unreadable file is a fatal input error distinct
// from any per-metric finding.
func Load(path, prefix string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metrics source: %w", err)
	}
	return Extract(string(data), prefix), nil
}

// Has reports whether name is a declared or derived metric.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Prefix returns the naming prefix the registry was built with.
func (r *Registry) Prefix() string {
	return r.prefix
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := r.snapshot()
	sort.Strings(names)
	return names
}

func (r *Registry) add(name string) {
	r.names[name] = struct{}{}
}

func (r *Registry) snapshot() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	return names
}

func hasDurationMarker(name string) bool {
	for _, marker := range durationMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// stripDurationMarkers removes every occurrence of each duration unit
// token from the name, yielding the histogram base series name.
func stripDurationMarkers(name string) string {
	for _, marker := range durationMarkers {
		name = strings.ReplaceAll(name, marker, "")
	}
	return name
}
