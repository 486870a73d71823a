package registry

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Feature: promcheck, Property 1: Registry Extraction Determinism
// Extracting the same source twice yields the same name set, and every
// quoted metric with the configured prefix is present in the result.
func TestProperty_ExtractionDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(
			rapid.StringMatching(`absurdersql_[a-z]{1,8}(_[a-z]{1,8}){0,2}`), 1, 20,
		).Draw(rt, "names")

		var b strings.Builder
		for _, name := range names {
			b.WriteString(`counter!("` + name + `");` + "\n")
		}
		source := b.String()

		first := Extract(source, "absurdersql")
		second := Extract(source, "absurdersql")

		for _, name := range names {
			if !first.Has(name) {
				rt.Fatalf("declared metric %q missing from registry", name)
			}
		}

		a, c := first.Names(), second.Names()
		if len(a) != len(c) {
			rt.Fatalf("registry size differs between runs: %d vs %d", len(a), len(c))
		}
		for i := range a {
			if a[i] != c[i] {
				rt.Fatalf("registry content differs at %d: %q vs %q", i, a[i], c[i])
			}
		}
	})
}

// Feature: promcheck, Property 2: Histogram Series Derivation
// Any registered metric containing a duration marker also registers its
// unit-stripped base and the _bucket/_sum/_count series.
func TestProperty_HistogramDerivation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		stem := rapid.StringMatching(`absurdersql_[a-z]{1,10}`).Draw(rt, "stem")
		marker := rapid.SampledFrom([]string{"_ms", "_seconds"}).Draw(rt, "marker")
		name := stem + marker

		reg := Extract(`"`+name+`"`, "absurdersql")

		base := strings.ReplaceAll(strings.ReplaceAll(name, "_ms", ""), "_seconds", "")
		for _, derived := range []string{base, base + "_bucket", base + "_sum", base + "_count"} {
			if !reg.Has(derived) {
				rt.Fatalf("derived series %q missing for histogram metric %q", derived, name)
			}
		}
	})
}
