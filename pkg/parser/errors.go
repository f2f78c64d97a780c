package parser

import (
	"fmt"

	"ember/pkg/token"
)

// ErrKind identifies the category of a parse error (spec.md §4.2).
type ErrKind int

const (
	ScanErr ErrKind = iota
	UnexpectedToken
	ExpectedBlock
	ExpectedToken
	ExpectedExpr
	ExpectedIdent
	UnexpectedBreak
	UnexpectedContinue
	SyntaxErr
	UnclosedExpr
)

func (k ErrKind) String() string {
	switch k {
	case ScanErr:
		return "ScanErr"
	case UnexpectedToken:
		return "UnexpectedToken"
	case ExpectedBlock:
		return "ExpectedBlock"
	case ExpectedToken:
		return "ExpectedToken"
	case ExpectedExpr:
		return "ExpectedExpr"
	case ExpectedIdent:
		return "ExpectedIdent"
	case UnexpectedBreak:
		return "UnexpectedBreak"
	case UnexpectedContinue:
		return "UnexpectedContinue"
	case SyntaxErr:
		return "SyntaxErr"
	case UnclosedExpr:
		return "UnclosedExpr"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Err is the parser's typed error. A ScanErr wraps the underlying
// scanner error per spec.md §7's propagation policy.
type Err struct {
	Kind    ErrKind
	Loc     token.Location
	Message string
	Wrapped error
}

func (e *Err) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Loc, e.Wrapped)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Message)
}

func (e *Err) Unwrap() error {
	return e.Wrapped
}

// Continuable reports whether this error is part of the REPL's
// "keep reading" subset (spec.md §4.2: ExpectedBlock is continuable;
// a wrapped continuable scan error also counts).
func (e *Err) Continuable() bool {
	if e.Kind == ExpectedBlock {
		return true
	}
	type continuabler interface{ Continuable() bool }
	if c, ok := e.Wrapped.(continuabler); ok {
		return c.Continuable()
	}
	return false
}

func newErr(kind ErrKind, loc token.Location, format string, args ...any) *Err {
	return &Err{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

func wrapScanErr(err error, loc token.Location) *Err {
	return &Err{Kind: ScanErr, Loc: loc, Wrapped: err}
}
