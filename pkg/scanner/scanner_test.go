package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/pkg/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := New(src).Tokenize()
	require.NoError(t, err)
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeArithmeticExpression(t *testing.T) {
	got := kinds(t, "1 + 2")
	require.Equal(t, []token.Kind{token.Int, token.Plus, token.Int, token.EndOfStatement, token.EndOfInput}, got)
}

func TestTokenizeStringLiteral(t *testing.T) {
	toks, err := New(`"hello"`).Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.Str, toks[0].Kind)
	require.Equal(t, "hello", toks[0].Value)
}

func TestTokenizeKeywordsVsIdents(t *testing.T) {
	got := kinds(t, "if x")
	require.Equal(t, []token.Kind{token.If, token.Ident, token.EndOfStatement, token.EndOfInput}, got)
}

func TestTokenizeCompoundOperators(t *testing.T) {
	got := kinds(t, "a += 1")
	require.Equal(t, []token.Kind{token.Ident, token.PlusEqual, token.Int, token.EndOfStatement, token.EndOfInput}, got)

	got = kinds(t, "a == b")
	require.Equal(t, []token.Kind{token.Ident, token.EqualEqual, token.Ident, token.EndOfStatement, token.EndOfInput}, got)

	got = kinds(t, "a === b")
	require.Equal(t, []token.Kind{token.Ident, token.EqualEqualEqual, token.Ident, token.EndOfStatement, token.EndOfInput}, got)
}

func TestTokenizeFloorDivAndFloat(t *testing.T) {
	got := kinds(t, "7 // 2")
	require.Equal(t, []token.Kind{token.Int, token.DoubleSlash, token.Int, token.EndOfStatement, token.EndOfInput}, got)

	toks, err := New("3.14").Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.Float, toks[0].Kind)
}

func TestTokenizeBrackets(t *testing.T) {
	got := kinds(t, "(1, 2)")
	require.Equal(t, []token.Kind{
		token.LParen, token.Int, token.Comma, token.Int, token.RParen, token.EndOfStatement, token.EndOfInput,
	}, got)
}

func TestUnmatchedClosingBracketIsError(t *testing.T) {
	_, err := New(")").Tokenize()
	require.Error(t, err)
}

func TestLeadingTabIsWhitespaceAfterIndent(t *testing.T) {
	_, err := New("\tx").Tokenize()
	require.Error(t, err)
	serr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, WhitespaceAfterIndent, serr.Kind)
}

func TestUnderscorePlaceholderVsIdentContinuation(t *testing.T) {
	toks, err := New("_").Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.Ident, toks[0].Kind)
	require.Equal(t, "_", toks[0].Value)

	toks, err = New("_foo").Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.Ident, toks[0].Kind)
	require.Equal(t, "_foo", toks[0].Value)
}
