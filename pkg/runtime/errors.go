// Package runtime defines the value model (Object and its variants),
// namespaces, and the RuntimeContext the VM and built-in functions
// share — grounded on original_source/src/vm/vm.rs's RuntimeContext and
// the dynamic-dispatch Object trait implied across that file's match
// arms, rewritten as a Go interface with per-variant method overrides.
package runtime

import (
	"fmt"

	"ember/pkg/token"
)

// ErrKind classifies a runtime fault raised while evaluating an
// Object operation or resolving a name, per spec.md §4.4's VM error
// catalog. The VM also raises EmptyStack/NotEnoughValuesOnStack
// directly (those are stack-discipline faults, not Object faults), so
// this set mirrors spec.md §4.4 minus the two stack-only kinds.
type ErrKind int

const (
	NameErr ErrKind = iota
	TypeErr
	AttrDoesNotExist
	NotCallable
	ExpectedVar
	ZeroDivision
)

func (k ErrKind) String() string {
	switch k {
	case NameErr:
		return "NameErr"
	case TypeErr:
		return "TypeErr"
	case AttrDoesNotExist:
		return "AttrDoesNotExist"
	case NotCallable:
		return "NotCallable"
	case ExpectedVar:
		return "ExpectedVar"
	case ZeroDivision:
		return "ZeroDivision"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Err is the typed error Object methods and namespace lookups return.
// The VM wraps it (or one of its own stack-discipline errors) in its
// own RuntimeErr when reporting a failure to the driver.
type Err struct {
	Kind    ErrKind
	Loc     token.Location
	Message string
}

func (e *Err) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind ErrKind, format string, args ...any) *Err {
	return &Err{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func typeErr(op string, a, b Object) *Err {
	if b == nil {
		return newErr(TypeErr, "unsupported operand type for %s: %s", op, a.TypeName())
	}
	return newErr(TypeErr, "unsupported operand types for %s: %s and %s", op, a.TypeName(), b.TypeName())
}
