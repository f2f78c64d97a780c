package vm

import (
	"fmt"

	"ember/pkg/runtime"
	"ember/pkg/token"
)

// ErrKind classifies a runtime fault, spec.md §4.4's catalog. The two
// stack-discipline kinds (EmptyStack, NotEnoughValuesOnStack) are
// raised directly by the VM; the rest are raised by pkg/runtime's
// Object methods and namespace lookups and re-tagged here.
type ErrKind int

const (
	EmptyStack ErrKind = iota
	NotEnoughValuesOnStack
	NameErr
	TypeErr
	AttrDoesNotExist
	NotCallable
	ExpectedVar
)

func (k ErrKind) String() string {
	switch k {
	case EmptyStack:
		return "EmptyStack"
	case NotEnoughValuesOnStack:
		return "NotEnoughValuesOnStack"
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
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// RuntimeErr is fatal to the current execution but never corrupts the
// VM (spec.md §4.4): the driver may halt and reset, or in the REPL
// simply discard this execution and read the next statement.
type RuntimeErr struct {
	Kind    ErrKind
	N       int // NotEnoughValuesOnStack's required count
	Loc     token.Location
	Message string
}

func (e *RuntimeErr) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind ErrKind, format string, args ...any) *RuntimeErr {
	return &RuntimeErr{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// fromObjectErr re-tags a pkg/runtime error (raised by an Object
// method or a namespace lookup) into the VM's own RuntimeErr taxonomy.
func fromObjectErr(err error) error {
	re, ok := err.(*runtime.Err)
	if !ok {
		return err
	}
	kind := TypeErr
	switch re.Kind {
	case runtime.NameErr:
		kind = NameErr
	case runtime.AttrDoesNotExist:
		kind = AttrDoesNotExist
	case runtime.TypeErr, runtime.ZeroDivision:
		kind = TypeErr
	case runtime.NotCallable:
		kind = NotCallable
	case runtime.ExpectedVar:
		kind = ExpectedVar
	}
	return &RuntimeErr{Kind: kind, Message: re.Message}
}
