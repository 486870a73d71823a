package promql

import (
	"reflect"
	"testing"
)

func kinds(tokens []token) []tokenKind {
	out := make([]tokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.kind
	}
	return out
}

func texts(tokens []token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.text
	}
	return out
}

func TestLex_RateCall(t *testing.T) {
	tokens := lex("rate(absurdersql_queries_total[5m])")

	wantTexts := []string{"rate", "(", "absurdersql_queries_total", "[", "5m", "]", ")"}
	if got := texts(tokens); !reflect.DeepEqual(got, wantTexts) {
		t.Fatalf("texts = %v, want %v", got, wantTexts)
	}

	wantKinds := []tokenKind{
		tokenIdent, tokenBracket, tokenIdent, tokenBracket,
		tokenDuration, tokenBracket, tokenBracket,
	}
	if got := kinds(tokens); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("kinds = %v, want %v", got, wantKinds)
	}
}

func TestLex_StringsConsumeBrackets(t *testing.T) {
	tokens := lex(`metric{label="a(b[c{d"}`)

	// The bracket characters inside the string literal must not become
	// bracket tokens.
	brackets := 0
	for _, tok := range tokens {
		if tok.kind == tokenBracket {
			brackets++
		}
	}
	if brackets != 2 {
		t.Errorf("bracket token count = %d, want 2 (only the matcher braces)", brackets)
	}
}

func TestLex_EscapedQuoteInString(t *testing.T) {
	tokens := lex(`{job="a\"b"}`)

	var str string
	for _, tok := range tokens {
		if tok.kind == tokenString {
			str = tok.text
		}
	}
	if str != `"a\"b"` {
		t.Errorf("string token = %q, want %q", str, `"a\"b"`)
	}
}

func TestLex_UnterminatedStringConsumesRest(t *testing.T) {
	tokens := lex(`metric{job="unfinished`)

	last := tokens[len(tokens)-1]
	if last.kind != tokenString || last.text != `"unfinished` {
		t.Errorf("last token = %v %q, want unterminated string", last.kind, last.text)
	}
}

func TestLex_CompoundDuration(t *testing.T) {
	tokens := lex("[1h30m]")

	if len(tokens) != 3 {
		t.Fatalf("token count = %d, want 3", len(tokens))
	}
	if tokens[1].kind != tokenDuration || tokens[1].text != "1h30m" {
		t.Errorf("middle token = %v %q, want duration 1h30m", tokens[1].kind, tokens[1].text)
	}
}

func TestLex_PlainNumberIsNotDuration(t *testing.T) {
	tokens := lex("0.95")

	if len(tokens) != 1 || tokens[0].kind != tokenNumber {
		t.Fatalf("tokens = %v, want single number", tokens)
	}
}

func TestLex_ArithmeticSplitsNumbers(t *testing.T) {
	tokens := lex("1+2")

	wantTexts := []string{"1", "+", "2"}
	if got := texts(tokens); !reflect.DeepEqual(got, wantTexts) {
		t.Errorf("texts = %v, want %v", got, wantTexts)
	}
}

func TestLex_ComparisonOperators(t *testing.T) {
	tokens := lex("a!=b")

	wantTexts := []string{"a", "!=", "b"}
	if got := texts(tokens); !reflect.DeepEqual(got, wantTexts) {
		t.Errorf("texts = %v, want %v", got, wantTexts)
	}
}

func TestLex_RecordingRuleNameIsOneIdent(t *testing.T) {
	tokens := lex("cluster:cpu:rate5m")

	if len(tokens) != 1 || tokens[0].kind != tokenIdent {
		t.Fatalf("tokens = %v, want single identifier", texts(tokens))
	}
	if tokens[0].text != "cluster:cpu:rate5m" {
		t.Errorf("text = %q, want the full colon-separated name", tokens[0].text)
	}
}

func TestLex_PositionsIndexOriginalText(t *testing.T) {
	input := "sum( rate( x ) )"
	for _, tok := range lex(input) {
		if input[tok.pos:tok.pos+len(tok.text)] != tok.text {
			t.Errorf("token %q pos %d does not index the source", tok.text, tok.pos)
		}
	}
}
