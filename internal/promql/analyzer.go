package promql

import (
	"sort"
	"strconv"
	"strings"

	"github.com/valter-silva-au/promcheck/pkg/models"
)

// knownFunctions is the set of PromQL functions the analyzer recognizes.
// A call to anything outside this set is only a warning; the function may
// be valid but unrecognized.
var knownFunctions = map[string]struct{}{
	"rate": {}, "irate": {}, "increase": {}, "sum": {}, "avg": {},
	"min": {}, "max": {}, "count": {}, "stddev": {}, "stdvar": {},
	"topk": {}, "bottomk": {}, "histogram_quantile": {}, "abs": {},
	"ceil": {}, "floor": {}, "round": {}, "sqrt": {}, "exp": {},
	"ln": {}, "log2": {}, "log10": {}, "deriv": {}, "predict_linear": {},
	"delta": {}, "idelta": {}, "changes": {}, "sort": {}, "sort_desc": {},
	"clamp_max": {}, "clamp_min": {}, "time": {}, "timestamp": {},
}

// rangeVectorFunctions are the functions whose argument must contain a
// bracketed range selector.
var rangeVectorFunctions = map[string]struct{}{
	"rate": {}, "irate": {}, "increase": {},
}

// matcherOperators split the inside of a {...} label matcher segment.
var matcherOperators = []string{"=~", "!~", "!=", "="}

// Analyzer validates PromQL expressions for structural correctness. It is
// stateless and safe for concurrent use; every call returns a fresh issue
// list, so callers merge results explicitly.
type Analyzer struct{}

// NewAnalyzer creates a new expression analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the structural checks on one expression and returns whether
// it is structurally valid along with every issue found. Bracket balance
// is a prerequisite: when it fails, the remaining checks are skipped for
// that expression. Warnings never make an expression invalid.
func (a *Analyzer) Analyze(expr models.Expression) (bool, []models.Issue) {
	text := strings.TrimSpace(expr.Text)
	if text == "" {
		return false, []models.Issue{
			models.Errorf(models.CheckEmptyExpr, expr.File, expr.Context(), "Empty expression"),
		}
	}

	tokens := lex(text)

	if issue, ok := checkBrackets(tokens, expr); !ok {
		return false, []models.Issue{issue}
	}

	var issues []models.Issue
	issues = append(issues, checkFunctions(tokens, expr)...)
	issues = append(issues, checkRangeVectors(tokens, expr)...)
	issues = append(issues, checkHistogramQuantile(tokens, text, expr)...)
	issues = append(issues, checkLabelMatchers(tokens, text, expr)...)

	for _, issue := range issues {
		if issue.IsError() {
			return false, issues
		}
	}
	return true, issues
}

// bracketPairs maps opening brackets to their closing counterparts.
var bracketPairs = map[string]string{"(": ")", "[": "]", "{": "}"}

// checkBrackets verifies (), [], and {} nest correctly using a stack over
// the bracket tokens. Brackets inside string literals never reach here
// because the lexer consumes strings whole.
func checkBrackets(tokens []token, expr models.Expression) (models.Issue, bool) {
	var stack []string
	for _, t := range tokens {
		if t.kind != tokenBracket {
			continue
		}
		if _, isOpen := bracketPairs[t.text]; isOpen {
			stack = append(stack, t.text)
			continue
		}
		if len(stack) == 0 || bracketPairs[stack[len(stack)-1]] != t.text {
			return models.Errorf(models.CheckBrackets, expr.File, expr.Context(),
				"Unbalanced brackets in expression: %s", expr.Text), false
		}
		stack = stack[:len(stack)-1]
	}
	if len(stack) > 0 {
		return models.Errorf(models.CheckBrackets, expr.File, expr.Context(),
			"Unbalanced brackets in expression: %s", expr.Text), false
	}
	return models.Issue{}, true
}

// callSites returns the index in tokens of every identifier immediately
// followed by an opening parenthesis, i.e. a function call.
func callSites(tokens []token) []int {
	var sites []int
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].kind == tokenIdent && tokens[i+1].kind == tokenBracket && tokens[i+1].text == "(" {
			sites = append(sites, i)
		}
	}
	return sites
}

// argumentSpan returns the token range (exclusive of the parentheses)
// covering the arguments of the call at tokens[call], assuming
// tokens[call+1] is the opening parenthesis.
func argumentSpan(tokens []token, call int) (int, int) {
	depth := 0
	for i := call + 1; i < len(tokens); i++ {
		if tokens[i].kind != tokenBracket {
			continue
		}
		switch tokens[i].text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return call + 2, i
			}
		}
	}
	return call + 2, len(tokens)
}

// checkFunctions warns on calls to functions outside the known set. One
// warning per distinct unknown name keeps the report stable regardless of
// how often the call repeats within the expression.
func checkFunctions(tokens []token, expr models.Expression) []models.Issue {
	unknown := make(map[string]struct{})
	for _, call := range callSites(tokens) {
		name := tokens[call].text
		if _, ok := knownFunctions[name]; !ok {
			unknown[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []models.Issue
	for _, name := range names {
		issues = append(issues, models.Warnf(models.CheckFunction, expr.File, expr.Context(),
			"Unknown function: %s (might be valid, please verify)", name))
	}
	return issues
}

// checkRangeVectors verifies that every rate/irate/increase call has a
// range selector with a valid duration inside its argument.
func checkRangeVectors(tokens []token, expr models.Expression) []models.Issue {
	var issues []models.Issue
	for _, call := range callSites(tokens) {
		name := tokens[call].text
		if _, ok := rangeVectorFunctions[name]; !ok {
			continue
		}

		lo, hi := argumentSpan(tokens, call)
		hasSelector := false
		hasValidSelector := false
		for i := lo; i < hi; i++ {
			if tokens[i].kind == tokenBracket && tokens[i].text == "[" {
				hasSelector = true
				if i+2 < len(tokens) && tokens[i+1].kind == tokenDuration &&
					tokens[i+2].kind == tokenBracket && tokens[i+2].text == "]" {
					hasValidSelector = true
				}
			}
		}

		switch {
		case !hasSelector:
			issues = append(issues, models.Errorf(models.CheckRangeVector, expr.File, expr.Context(),
				"%s() requires a range vector selector", name))
		case !hasValidSelector:
			issues = append(issues, models.Errorf(models.CheckRangeVector, expr.File, expr.Context(),
				"Invalid range selector in %s()", name))
		}
	}
	return issues
}

// checkHistogramQuantile validates histogram_quantile calls: a literal
// first argument must lie in [0, 1], and the vector argument should use a
// _bucket series.
func checkHistogramQuantile(tokens []token, text string, expr models.Expression) []models.Issue {
	var issues []models.Issue
	for _, call := range callSites(tokens) {
		if tokens[call].text != "histogram_quantile" {
			continue
		}

		lo, hi := argumentSpan(tokens, call)
		comma := topLevelComma(tokens, lo, hi)
		if comma < 0 {
			// Single-argument call; nothing further to check here.
			continue
		}

		// The quantile bound only applies to literal first arguments; a
		// variable or sub-expression is out of scope for static checks.
		firstArg := strings.TrimSpace(sourceSpan(tokens, text, lo, comma))
		if q, err := strconv.ParseFloat(firstArg, 64); err == nil {
			if q < 0 || q > 1 {
				issues = append(issues, models.Errorf(models.CheckQuantile, expr.File, expr.Context(),
					"histogram_quantile quantile must be between 0 and 1, got: %g", q))
			}
		}

		vectorArg := sourceSpan(tokens, text, comma+1, hi)
		if !strings.Contains(vectorArg, "_bucket") {
			issues = append(issues, models.Warnf(models.CheckQuantile, expr.File, expr.Context(),
				"histogram_quantile should use a _bucket metric, found: %s", strings.TrimSpace(vectorArg)))
		}
	}
	return issues
}

// topLevelComma returns the index of the first comma token between lo and
// hi that sits at the call's own nesting depth, or -1.
func topLevelComma(tokens []token, lo, hi int) int {
	depth := 0
	for i := lo; i < hi; i++ {
		switch tokens[i].kind {
		case tokenBracket:
			switch tokens[i].text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		case tokenComma:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// sourceSpan returns the slice of the original text covered by
// tokens[lo:hi]. Empty spans yield an empty string.
func sourceSpan(tokens []token, text string, lo, hi int) string {
	if lo >= hi || lo >= len(tokens) {
		return ""
	}
	start := tokens[lo].pos
	last := tokens[hi-1]
	end := last.pos + len(last.text)
	return text[start:end]
}

// checkLabelMatchers validates every non-empty {...} segment: splitting
// its contents on the matcher operators must produce at least a label part
// and a value part. An empty matcher selects all series and is valid.
func checkLabelMatchers(tokens []token, text string, expr models.Expression) []models.Issue {
	var issues []models.Issue
	for i := 0; i < len(tokens); i++ {
		if tokens[i].kind != tokenBracket || tokens[i].text != "{" {
			continue
		}
		closing := matchingBrace(tokens, i)
		if closing < 0 {
			continue // unbalanced already rejected by checkBrackets
		}

		inner := sourceSpan(tokens, text, i+1, closing)
		if strings.TrimSpace(inner) != "" && len(splitOnMatcherOperators(inner)) < 2 {
			issues = append(issues, models.Errorf(models.CheckLabelMatcher, expr.File, expr.Context(),
				"Invalid label matcher syntax: {%s}", inner))
		}
		i = closing
	}
	return issues
}

// matchingBrace returns the index of the `}` closing the `{` at open.
func matchingBrace(tokens []token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		if tokens[i].kind != tokenBracket {
			continue
		}
		switch tokens[i].text {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitOnMatcherOperators splits matcher content on =, !=, =~, and !~,
// longest operators first so compound operators are not split twice.
func splitOnMatcherOperators(s string) []string {
	parts := []string{s}
	for _, op := range matcherOperators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, op)...)
		}
		parts = next
	}
	return parts
}
