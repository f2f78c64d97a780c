// Package token defines the lexical tokens produced by pkg/scanner and
// consumed by pkg/parser.
package token

import "fmt"

// Location is a 1-based line/column position in source text. The zero
// value (0,0) is a sentinel meaning "unknown" — used for synthetic nodes
// that have no direct source origin.
type Location struct {
	Line int
	Col  int
}

// Unknown is the sentinel location.
var Unknown = Location{}

// IsUnknown reports whether l is the sentinel location.
func (l Location) IsUnknown() bool {
	return l.Line == 0 && l.Col == 0
}

// Before reports whether l sorts strictly before other in (line, col)
// lexicographic order.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Col < other.Col
}

// LessEqual reports whether l sorts at or before other.
func (l Location) LessEqual(other Location) bool {
	return l == other || l.Before(other)
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Invalid Kind = iota

	// Literals
	Int
	Float
	Str
	FormatStr
	Bool
	Nil

	// Identifiers
	Ident
	TypeIdent
	TypeMethodIdent
	SpecialIdent
	Label

	// Keywords
	If
	Else
	Block
	Loop
	Break
	Continue
	Jump
	Print
	KwNil
	True
	False

	// Punctuation / operators
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Dot
	Colon

	Equal       // =
	PlusEqual   // +=
	MinusEqual  // -=
	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	DoubleSlash // //
	Percent     // %
	Caret       // ^

	EqualEqualEqual    // ===
	EqualEqual         // ==
	NotEqual           // !=
	LessThan           // <
	LessThanOrEqual    // <=
	GreaterThan        // >
	GreaterThanOrEqual // >=

	And // &&
	Or  // ||

	Bang     // !
	BangBang // !! (AsBool)

	FuncStart // ->

	// Synthetic layout tokens
	ScopeStart
	ScopeEnd
	InlineScopeStart
	InlineScopeEnd
	EndOfStatement
	EndOfInput
)

var names = map[Kind]string{
	Invalid:            "Invalid",
	Int:                "Int",
	Float:              "Float",
	Str:                "Str",
	FormatStr:          "FormatStr",
	Bool:               "Bool",
	Nil:                "Nil",
	Ident:              "Ident",
	TypeIdent:          "TypeIdent",
	TypeMethodIdent:    "TypeMethodIdent",
	SpecialIdent:       "SpecialIdent",
	Label:              "Label",
	If:                 "If",
	Else:               "Else",
	Block:              "Block",
	Loop:               "Loop",
	Break:              "Break",
	Continue:           "Continue",
	Jump:               "Jump",
	Print:              "Print",
	KwNil:              "KwNil",
	True:               "True",
	False:              "False",
	LParen:             "LParen",
	RParen:             "RParen",
	LBracket:           "LBracket",
	RBracket:           "RBracket",
	Comma:              "Comma",
	Dot:                "Dot",
	Colon:              "Colon",
	Equal:              "Equal",
	PlusEqual:          "PlusEqual",
	MinusEqual:         "MinusEqual",
	Plus:               "Plus",
	Minus:              "Minus",
	Star:               "Star",
	Slash:              "Slash",
	DoubleSlash:        "DoubleSlash",
	Percent:            "Percent",
	Caret:              "Caret",
	EqualEqualEqual:    "EqualEqualEqual",
	EqualEqual:         "EqualEqual",
	NotEqual:           "NotEqual",
	LessThan:           "LessThan",
	LessThanOrEqual:    "LessThanOrEqual",
	GreaterThan:        "GreaterThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	And:                "And",
	Or:                 "Or",
	Bang:               "Bang",
	BangBang:           "BangBang",
	FuncStart:          "FuncStart",
	ScopeStart:         "ScopeStart",
	ScopeEnd:           "ScopeEnd",
	InlineScopeStart:   "InlineScopeStart",
	InlineScopeEnd:     "InlineScopeEnd",
	EndOfStatement:     "EndOfStatement",
	EndOfInput:         "EndOfInput",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps source-level keyword spellings to their Kind. Anything
// not in this table that starts lowercase is a plain Ident.
var Keywords = map[string]Kind{
	"if":       If,
	"else":     Else,
	"block":    Block,
	"loop":     Loop,
	"break":    Break,
	"continue": Continue,
	"jump":     Jump,
	"print":    Print,
	"nil":      KwNil,
	"true":     True,
	"false":    False,
}

// Token is one lexeme produced by the scanner, tagged with its kind and
// source span. Value carries the literal text for idents/literals; for
// Int it is the digit string (underscores stripped) and Radix gives its
// base. FormatStrTokens holds the sub-scanned segments for a FormatStr
// token (see pkg/scanner's format-string sub-scanner).
type Token struct {
	Kind            Kind
	Value           string
	Radix           int
	FormatStrTokens []Token
	Start           Location
	End             Location
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Value, t.Start)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Start)
}

// New builds a Token with a computed End based on Value length (for
// single-line lexemes only; multi-line lexemes such as strings set End
// explicitly after scanning).
func New(kind Kind, value string, start Location) Token {
	end := start
	if n := len([]rune(value)); n > 0 {
		end.Col += n
	}
	return Token{Kind: kind, Value: value, Start: start, End: end}
}
