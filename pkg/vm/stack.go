package vm

import "ember/pkg/runtime"

// valueKind tags a value-stack entry, spec.md §4.4's ValueStackKind:
// a Constant index, a named Var, a Temp object produced by evaluation,
// or a ReturnVal produced by a built-in call.
type valueKind int

const (
	vkConstant valueKind = iota
	vkVar
	vkTemp
	vkReturnVal
)

type stackValue struct {
	kind  valueKind
	index int    // vkConstant
	name  string // vkVar
	obj   runtime.Object
}

func constantValue(index int) stackValue   { return stackValue{kind: vkConstant, index: index} }
func varValue(name string) stackValue      { return stackValue{kind: vkVar, name: name} }
func tempValue(obj runtime.Object) stackValue {
	return stackValue{kind: vkTemp, obj: obj}
}
func returnValue(obj runtime.Object) stackValue {
	return stackValue{kind: vkReturnVal, obj: obj}
}

// resolve dereferences a stack entry to its underlying Object,
// resolving Var entries against the current namespace stack
// (original_source/src/vm/vm.rs's get_obj).
func (vm *VM) resolve(sv stackValue) (runtime.Object, error) {
	switch sv.kind {
	case vkConstant:
		return vm.ctx.Constant(sv.index), nil
	case vkVar:
		obj, err := vm.ctx.Load(sv.name)
		if err != nil {
			return nil, fromObjectErr(err)
		}
		return obj, nil
	case vkTemp, vkReturnVal:
		return sv.obj, nil
	default:
		return nil, newErr(TypeErr, "unresolvable value-stack entry")
	}
}

func (vm *VM) push(sv stackValue) { vm.valueStack = append(vm.valueStack, sv) }

func (vm *VM) pop() (stackValue, error) {
	if len(vm.valueStack) == 0 {
		return stackValue{}, newErr(EmptyStack, "value stack underflow")
	}
	top := vm.valueStack[len(vm.valueStack)-1]
	vm.valueStack = vm.valueStack[:len(vm.valueStack)-1]
	return top, nil
}

// popObj pops and resolves in one step — the common case for opcode
// operand fetching.
func (vm *VM) popObj() (runtime.Object, error) {
	sv, err := vm.pop()
	if err != nil {
		return nil, err
	}
	return vm.resolve(sv)
}

// popN pops n entries, required≥n or NotEnoughValuesOnStack.
func (vm *VM) popN(n int) ([]stackValue, error) {
	if len(vm.valueStack) < n {
		return nil, &RuntimeErr{Kind: NotEnoughValuesOnStack, N: n, Message: "not enough values on the stack"}
	}
	out := make([]stackValue, n)
	copy(out, vm.valueStack[len(vm.valueStack)-n:])
	vm.valueStack = vm.valueStack[:len(vm.valueStack)-n]
	return out, nil
}
