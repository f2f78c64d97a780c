package runtime

import (
	"fmt"

	"ember/pkg/ast"
	"ember/pkg/bytecode"
)

// FuncObject is a user-defined function: a name (used for recursive
// self-reference and disassembly), its formal parameters, and the
// chunk the VM re-enters on a Call instruction (original_source's
// handle_call, mirrored in pkg/vm).
type FuncObject struct {
	base
	Name   string
	Params ast.Params
	Chunk  bytecode.Chunk
}

func NewFunc(name string, params ast.Params, chunk bytecode.Chunk) *FuncObject {
	return &FuncObject{base{typeName: "Func"}, name, params, chunk}
}

func (f *FuncObject) Display() string {
	if f.Name == "" {
		return "<anonymous func>"
	}
	return fmt.Sprintf("<func %s>", f.Name)
}

func (f *FuncObject) IsEqual(other Object) bool { return f.Is(other) }
func (f *FuncObject) Is(other Object) bool {
	o, ok := other.(*FuncObject)
	return ok && f == o
}

func (f *FuncObject) AsFunc() (*FuncObject, bool) { return f, true }

// BuiltinImpl is a native function's implementation. Builtins run
// outside the VM's instruction loop (they never push a scope frame),
// matching the built-in dispatch branch of original_source's
// handle_call.
type BuiltinImpl func(ctx *RuntimeContext, args []Object) (Object, error)

// BuiltinFuncObject is a native function registered in the root
// namespace by RuntimeContext's builtins factory (SPEC_FULL.md §4).
// Params nil means variadic, packed into a single `$args` Tuple
// before Impl runs — same convention FuncObject uses for user code.
type BuiltinFuncObject struct {
	base
	Name   string
	Params ast.Params
	Impl   BuiltinImpl
}

func NewBuiltinFunc(name string, params ast.Params, impl BuiltinImpl) *BuiltinFuncObject {
	return &BuiltinFuncObject{base{typeName: "BuiltinFunc"}, name, params, impl}
}

func (f *BuiltinFuncObject) Display() string { return fmt.Sprintf("<builtin %s>", f.Name) }

func (f *BuiltinFuncObject) IsEqual(other Object) bool { return f.Is(other) }
func (f *BuiltinFuncObject) Is(other Object) bool {
	o, ok := other.(*BuiltinFuncObject)
	return ok && f == o
}

func (f *BuiltinFuncObject) AsBuiltinFunc() (*BuiltinFuncObject, bool) { return f, true }
