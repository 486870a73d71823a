// Package promql provides structural validation of PromQL expressions and
// cross-referencing of the metrics they mention against a registry.
//
// The package deliberately does not build a full PromQL AST. A minimal
// tokenizer classifies identifiers, numbers, durations, string literals,
// operators, and brackets; the analyzer's checks operate on that token
// stream. This is enough for the documented checks while staying robust
// against nested calls and bracket characters inside string literals,
// which pure pattern matching would misread.
package promql

import (
	"regexp"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenNumber
	tokenDuration
	tokenString
	tokenOperator
	tokenBracket
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// durationPattern matches PromQL range durations such as 5m, 90s, or 1h30m.
var durationPattern = regexp.MustCompile(`^([0-9]+(ms|s|m|h|d|w|y))+$`)

// lex splits a PromQL expression into tokens. The lexer is tolerant:
// unrecognized characters become single-character operator tokens and an
// unterminated string consumes the rest of the input, so every input
// produces a token stream for the analyzer to judge.
func lex(input string) []token {
	var tokens []token
	i := 0
	for i < len(input) {
		c := rune(input[i])

		switch {
		case unicode.IsSpace(c):
			i++

		case c == '"' || c == '\'' || c == '`':
			start := i
			i = scanString(input, i)
			tokens = append(tokens, token{kind: tokenString, text: input[start:i], pos: start})

		case c == '(' || c == ')' || c == '[' || c == ']' || c == '{' || c == '}':
			tokens = append(tokens, token{kind: tokenBracket, text: string(c), pos: i})
			i++

		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: input[start:i], pos: start})

		case unicode.IsDigit(c) || (c == '.' && i+1 < len(input) && unicode.IsDigit(rune(input[i+1]))):
			start := i
			i = scanNumber(input, i)
			text := input[start:i]
			kind := tokenNumber
			if durationPattern.MatchString(text) {
				kind = tokenDuration
			}
			tokens = append(tokens, token{kind: kind, text: text, pos: start})

		case strings.ContainsRune("=!<>~+-*/%^", c):
			start := i
			for i < len(input) && strings.ContainsRune("=!<>~", rune(input[i])) {
				i++
			}
			if i == start {
				i++ // single arithmetic operator
			}
			tokens = append(tokens, token{kind: tokenOperator, text: input[start:i], pos: start})

		default:
			tokens = append(tokens, token{kind: tokenOperator, text: string(c), pos: i})
			i++
		}
	}
	return tokens
}

// scanString consumes a quoted literal starting at input[start] and returns
// the index just past the closing quote. Backslash escapes are honored for
// double and single quoted strings; backticks have no escapes, matching
// PromQL raw strings.
func scanString(input string, start int) int {
	quote := input[start]
	i := start + 1
	for i < len(input) {
		switch input[i] {
		case '\\':
			if quote != '`' && i+1 < len(input) {
				i += 2
				continue
			}
			i++
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_' || c == ':'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == ':'
}

// scanNumber consumes a numeric or duration literal starting at
// input[start] and returns the index just past it. Letters are included so
// durations like 1h30m lex as one token; an exponent sign is only accepted
// directly after e or E.
func scanNumber(input string, start int) int {
	i := start
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsDigit(c) || unicode.IsLetter(c) || c == '.':
			i++
		case (c == '+' || c == '-') && i > start && (input[i-1] == 'e' || input[i-1] == 'E'):
			i++
		default:
			return i
		}
	}
	return i
}
