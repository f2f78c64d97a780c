package scanner

import (
	"strings"

	"ember/pkg/token"
)

// scanFormatString splits a format string's (already escape-processed)
// inner text into alternating literal and {expr} segments. Literal
// segments are emitted as single Str tokens; each {expr} segment is
// tokenized via a fresh, offset-translated Scanner instance (so its
// reported locations land back in the outer source) and its tokens are
// appended followed by a synthetic EndOfStatement boundary marker — the
// caller (pkg/parser) uses that marker to know where one embedded
// expression's tokens end and the next literal segment begins.
// Grounded on original_source/src/scanner/scanner.rs's
// "compose scanners, translate locations by offset" strategy
// (SPEC_FULL.md §3).
func scanFormatString(text string, baseLoc token.Location) ([]token.Token, error) {
	runes := []rune(text)
	var out []token.Token
	var lit strings.Builder
	line, col := baseLoc.Line, baseLoc.Col
	i := 0

	advance := func() rune {
		c := runes[i]
		i++
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		return c
	}

	flushLit := func() {
		out = append(out, token.Token{Kind: token.Str, Value: lit.String()})
		lit.Reset()
	}

	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '{' && i+1 < len(runes) && runes[i+1] == '{':
			advance()
			advance()
			lit.WriteRune('{')
		case c == '}' && i+1 < len(runes) && runes[i+1] == '}':
			advance()
			advance()
			lit.WriteRune('}')
		case c == '{':
			exprStart := token.Location{Line: line, Col: col}
			advance()
			depth := 1
			var exprSB strings.Builder
			closed := false
			for i < len(runes) {
				c2 := runes[i]
				if c2 == '{' {
					depth++
				} else if c2 == '}' {
					depth--
					if depth == 0 {
						advance()
						closed = true
						break
					}
				}
				exprSB.WriteRune(c2)
				advance()
			}
			if !closed {
				return nil, newErr(FormatStrErr, exprStart, "unmatched '{'")
			}
			flushLit()
			sub := NewWithOffset(exprSB.String(), exprStart)
			toks, err := sub.Tokenize()
			if err != nil {
				return nil, err
			}
			for _, t := range toks {
				// the sub-scanner's own EndOfStatement is dropped so the
				// marker appended below is the only boundary
				if t.Kind == token.EndOfInput || t.Kind == token.EndOfStatement {
					continue
				}
				out = append(out, t)
			}
			out = append(out, token.Token{Kind: token.EndOfStatement, Start: exprStart, End: exprStart})
		case c == '}':
			return nil, newErr(FormatStrErr, token.Location{Line: line, Col: col}, "unmatched '}'")
		default:
			lit.WriteRune(c)
			advance()
		}
	}
	flushLit()
	return out, nil
}
