package compiler

import (
	"fmt"

	"ember/pkg/token"
)

// ErrKind classifies a compile-time fault. These are distinct from
// pkg/parser's ErrKind set — by the time the compiler runs, the
// grammar is already known to be valid; what's left to fail is
// scope-tree resolution (jump labels) and assignment-target shape.
type ErrKind int

const (
	DuplicateLabelInScope ErrKind = iota
	LabelNotFoundInScope
	CannotJumpOutOfFunc
	InvalidAssignTarget
	UnpatchedPlaceholder
)

func (k ErrKind) String() string {
	switch k {
	case DuplicateLabelInScope:
		return "DuplicateLabelInScope"
	case LabelNotFoundInScope:
		return "LabelNotFoundInScope"
	case CannotJumpOutOfFunc:
		return "CannotJumpOutOfFunc"
	case InvalidAssignTarget:
		return "InvalidAssignTarget"
	case UnpatchedPlaceholder:
		return "UnpatchedPlaceholder"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

type Err struct {
	Kind    ErrKind
	Loc     token.Location
	Message string
}

func (e *Err) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Message)
}

func newErr(kind ErrKind, loc token.Location, format string, args ...any) *Err {
	return &Err{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}
