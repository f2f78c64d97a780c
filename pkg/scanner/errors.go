package scanner

import (
	"fmt"

	"ember/pkg/token"
)

// ErrKind identifies the category of a scan error, mirroring the
// per-stage typed-error convention used throughout the pipeline.
type ErrKind int

const (
	InvalidIndent ErrKind = iota
	WhitespaceAfterIndent
	UnexpectedIndent
	ExpectedIndentedBlock
	UnmatchedClosingBracket
	UnmatchedOpeningBracket
	UnterminatedStr
	ParseFloatErr
	ParseIntErr
	FormatStrErr
	ExpectedBlock
	UnexpectedChar
	UnexpectedWhitespace
	DuplicateLabel
)

func (k ErrKind) String() string {
	switch k {
	case InvalidIndent:
		return "InvalidIndent"
	case WhitespaceAfterIndent:
		return "WhitespaceAfterIndent"
	case UnexpectedIndent:
		return "UnexpectedIndent"
	case ExpectedIndentedBlock:
		return "ExpectedIndentedBlock"
	case UnmatchedClosingBracket:
		return "UnmatchedClosingBracket"
	case UnmatchedOpeningBracket:
		return "UnmatchedOpeningBracket"
	case UnterminatedStr:
		return "UnterminatedStr"
	case ParseFloatErr:
		return "ParseFloatErr"
	case ParseIntErr:
		return "ParseIntErr"
	case FormatStrErr:
		return "FormatStrErr"
	case ExpectedBlock:
		return "ExpectedBlock"
	case UnexpectedChar:
		return "UnexpectedChar"
	case UnexpectedWhitespace:
		return "UnexpectedWhitespace"
	case DuplicateLabel:
		return "DuplicateLabel"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Err is the scanner's typed error. It always carries a Location so the
// driver can render a caret-underlined excerpt.
type Err struct {
	Kind    ErrKind
	Loc     token.Location
	Message string
}

func (e *Err) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Message)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Loc)
}

func newErr(kind ErrKind, loc token.Location, format string, args ...any) *Err {
	return &Err{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Continuable reports whether this error is part of the subset the
// driver's REPL treats as "keep reading" rather than a reported failure
// (spec.md §4.1, §7; see SPEC_FULL.md §3 for the exact set).
func (e *Err) Continuable() bool {
	switch e.Kind {
	case ExpectedBlock, ExpectedIndentedBlock, UnmatchedOpeningBracket, UnterminatedStr:
		return true
	default:
		return false
	}
}
