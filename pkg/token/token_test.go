package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationOrdering(t *testing.T) {
	a := Location{Line: 1, Col: 5}
	b := Location{Line: 1, Col: 10}
	c := Location{Line: 2, Col: 1}

	require.True(t, a.Before(b))
	require.True(t, b.Before(c))
	require.False(t, b.Before(a))
	require.True(t, a.LessEqual(a))
	require.True(t, a.LessEqual(b))
}

func TestLocationUnknown(t *testing.T) {
	require.True(t, Unknown.IsUnknown())
	require.False(t, (Location{Line: 1, Col: 1}).IsUnknown())
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	require.Equal(t, "Plus", Plus.String())
	require.Equal(t, "EndOfInput", EndOfInput.String())
	require.Contains(t, Kind(9999).String(), "Kind(9999)")
}

func TestKeywordsTable(t *testing.T) {
	for word, kind := range map[string]Kind{
		"if": If, "else": Else, "loop": Loop, "break": Break,
		"continue": Continue, "jump": Jump, "print": Print,
		"nil": KwNil, "true": True, "false": False, "block": Block,
	} {
		got, ok := Keywords[word]
		require.True(t, ok, "expected %q in Keywords table", word)
		require.Equal(t, kind, got)
	}
	_, ok := Keywords["not_a_keyword"]
	require.False(t, ok)
}

func TestTokenNewComputesEndFromValueLength(t *testing.T) {
	tok := New(Ident, "hello", Location{Line: 3, Col: 1})
	require.Equal(t, Location{Line: 3, Col: 1}, tok.Start)
	require.Equal(t, Location{Line: 3, Col: 6}, tok.End)
}

func TestTokenStringFormat(t *testing.T) {
	tok := New(Ident, "x", Location{Line: 1, Col: 1})
	require.Contains(t, tok.String(), "Ident")
	require.Contains(t, tok.String(), `"x"`)

	bare := Token{Kind: EndOfInput, Start: Location{Line: 2, Col: 1}}
	require.Equal(t, "EndOfInput@2:1", bare.String())
}
