// Package vm executes a bytecode.Chunk against a runtime.RuntimeContext.
// Grounded on original_source/src/vm/vm.rs's dual-stack interpreter
// (the exact exit_scopes and handle_call algorithms are ported
// instruction-for-instruction below) and on
// _examples/rmay-nuxvm/pkg/vm/vm.go for the Go-side trace-logging and
// disassembly conventions (generalized from the teacher's Forth-word
// opcode set to spec.md §6's catalog).
package vm

import (
	"strings"

	"github.com/sirupsen/logrus"

	"ember/pkg/ast"
	"ember/pkg/bytecode"
	"ember/pkg/runtime"
)

// State is the outcome of one Execute call (spec.md §4.4's VMState).
type State int

const (
	StateHalted State = iota
	StateIdle
)

// Result is what Execute returns: Halted carries an exit code; Idle
// means the chunk ran to completion without halting, so a REPL may
// feed the VM another chunk sharing the same RuntimeContext.
type Result struct {
	State State
	Code  int
}

// VM is a single-threaded, synchronous interpreter instance (spec.md
// §5: no suspension points, no cancellation). One VM value is reused
// across REPL increments sharing one RuntimeContext; a fresh Execute
// call after a runtime error needs no cleanup, per spec.md §5.
type VM struct {
	ctx *runtime.RuntimeContext

	valueStack []stackValue
	scopeStack []int

	log   *logrus.Entry
	trace bool
}

func New(ctx *runtime.RuntimeContext, logger *logrus.Logger, trace bool) *VM {
	if logger == nil {
		logger = logrus.New()
	}
	return &VM{ctx: ctx, log: logger.WithField("component", "vm"), trace: trace}
}

// Execute runs chunk from ip=0 until it halts or falls off the end.
func (vm *VM) Execute(chunk bytecode.Chunk) (Result, error) {
	ip := 0
	for ip < len(chunk) {
		inst := chunk[ip]
		if vm.trace {
			vm.log.Tracef("%04d  %s", ip, inst)
		}
		next := ip + 1

		switch in := inst.(type) {
		case bytecode.NoOp:
			// nothing

		case bytecode.Truncate:
			if len(vm.valueStack) < in.N {
				return Result{}, &RuntimeErr{Kind: NotEnoughValuesOnStack, N: in.N, Message: "truncate target exceeds stack size"}
			}
			vm.valueStack = vm.valueStack[:in.N]

		case bytecode.LoadConst:
			vm.push(constantValue(in.Index))

		case bytecode.ScopeStart:
			vm.scopeStack = append(vm.scopeStack, len(vm.valueStack))
			vm.ctx.PushNamespace()

		case bytecode.ScopeEnd:
			if err := vm.exitScopes(1); err != nil {
				return Result{}, err
			}

		case bytecode.DeclareVar:
			vm.ctx.DeclareIfAbsent(in.Name, runtime.NewNil())

		case bytecode.AssignVar:
			if err := vm.assignVar(in.Name); err != nil {
				return Result{}, err
			}

		case bytecode.LoadVar:
			vm.push(varValue(in.Name))

		case bytecode.Jump:
			if in.ScopeExitCount > 0 {
				if err := vm.exitScopes(in.ScopeExitCount); err != nil {
					return Result{}, err
				}
			}
			next = in.Addr

		case bytecode.JumpIf:
			if in.ScopeExitCount > 0 {
				if err := vm.exitScopes(in.ScopeExitCount); err != nil {
					return Result{}, err
				}
			}
			cond, err := vm.popObj()
			if err != nil {
				return Result{}, err
			}
			if cond.AsBool() {
				next = in.Addr
			}

		case bytecode.JumpIfNot:
			if in.ScopeExitCount > 0 {
				if err := vm.exitScopes(in.ScopeExitCount); err != nil {
					return Result{}, err
				}
			}
			cond, err := vm.popObj()
			if err != nil {
				return Result{}, err
			}
			if !cond.AsBool() {
				next = in.Addr
			}

		case bytecode.JumpIfElse:
			if in.ScopeExitCount > 0 {
				if err := vm.exitScopes(in.ScopeExitCount); err != nil {
					return Result{}, err
				}
			}
			cond, err := vm.popObj()
			if err != nil {
				return Result{}, err
			}
			if cond.AsBool() {
				next = in.IfAddr
			} else {
				next = in.ElseAddr
			}

		case bytecode.UnaryOp:
			if err := vm.unaryOp(in.Op); err != nil {
				return Result{}, err
			}

		case bytecode.BinaryOp:
			if err := vm.binaryOp(in.Op); err != nil {
				return Result{}, err
			}

		case bytecode.MakeTuple:
			items, err := vm.popObjN(in.N)
			if err != nil {
				return Result{}, err
			}
			vm.push(tempValue(runtime.NewTuple(items)))

		case bytecode.MakeString:
			parts, err := vm.popObjN(in.N)
			if err != nil {
				return Result{}, err
			}
			var sb strings.Builder
			for _, p := range parts {
				sb.WriteString(p.Display())
			}
			vm.push(tempValue(runtime.NewString(sb.String())))

		case bytecode.Call:
			if err := vm.handleCall(in.N); err != nil {
				return Result{}, err
			}

		case bytecode.Return:
			// marker only; the scope-exit that follows a function's
			// trailing ScopeEnd carries the real control transfer.

		case bytecode.Halt:
			return Result{State: StateHalted, Code: in.Code}, nil

		case bytecode.HaltTop:
			obj, err := vm.popObj()
			if err != nil {
				return Result{}, err
			}
			code := 0
			if io, ok := obj.(*runtime.IntObject); ok {
				code = int(io.Value.Int64() & 0xff)
			}
			return Result{State: StateHalted, Code: code}, nil

		case bytecode.Placeholder:
			return Result{}, newErr(TypeErr, "unpatched placeholder reached at runtime (%s)", in.Message)

		case bytecode.BreakPlaceholder:
			return Result{}, newErr(TypeErr, "unpatched break placeholder reached at runtime")

		case bytecode.ContinuePlaceholder:
			return Result{}, newErr(TypeErr, "unpatched continue placeholder reached at runtime")

		default:
			return Result{}, newErr(TypeErr, "unhandled instruction %T", inst)
		}

		ip = next
	}
	return Result{State: StateIdle, Code: 0}, nil
}

// exitScopes implements spec.md §4.4's five-step scope-exit algorithm
// exactly, ported from original_source/src/vm/vm.rs's exit_scopes.
func (vm *VM) exitScopes(n int) error {
	if n > 1 {
		if len(vm.valueStack) < n-1 || len(vm.scopeStack) < n-1 {
			return newErr(NotEnoughValuesOnStack, "cannot exit %d scopes: stack too shallow", n)
		}
		vm.valueStack = vm.valueStack[:len(vm.valueStack)-(n-1)]
		vm.scopeStack = vm.scopeStack[:len(vm.scopeStack)-(n-1)]
		for i := 0; i < n-1; i++ {
			vm.ctx.PopNamespace()
		}
	}

	retSV, err := vm.pop()
	if err != nil {
		return err
	}
	retObj, err := vm.resolve(retSV)
	if err != nil {
		return err
	}

	if len(vm.scopeStack) == 0 {
		return newErr(EmptyStack, "scope stack underflow on exit")
	}
	savedSize := vm.scopeStack[len(vm.scopeStack)-1]
	vm.scopeStack = vm.scopeStack[:len(vm.scopeStack)-1]
	vm.valueStack = vm.valueStack[:savedSize]

	vm.ctx.PopNamespace()
	vm.push(tempValue(retObj))
	return nil
}

func (vm *VM) assignVar(name string) error {
	sv, err := vm.pop()
	if err != nil {
		return err
	}
	obj, err := vm.resolve(sv)
	if err != nil {
		return err
	}
	if err := vm.ctx.Assign(name, obj); err != nil {
		return fromObjectErr(err)
	}
	vm.push(varValue(name))
	return nil
}

func (vm *VM) unaryOp(op bytecode.UnaryOperator) error {
	obj, err := vm.popObj()
	if err != nil {
		return err
	}
	var result runtime.Object
	switch op {
	case bytecode.UOpPlus:
		result = obj
	case bytecode.UOpNegate:
		r, e := obj.Negate()
		if e != nil {
			return fromObjectErr(e)
		}
		result = r
	case bytecode.UOpAsBool:
		result = runtime.NewBool(obj.AsBool())
	case bytecode.UOpNot:
		result = obj.Not()
	default:
		return newErr(TypeErr, "unknown unary operator")
	}
	vm.push(tempValue(result))
	return nil
}

func (vm *VM) binaryOp(op bytecode.BinaryOperator) error {
	rhsSV, err := vm.pop()
	if err != nil {
		return err
	}
	lhsSV, err := vm.pop()
	if err != nil {
		return err
	}
	rhs, err := vm.resolve(rhsSV)
	if err != nil {
		return err
	}
	lhs, err := vm.resolve(lhsSV)
	if err != nil {
		return err
	}

	var result runtime.Object
	var opErr error
	switch op {
	case bytecode.BOpDot:
		result, opErr = dotAccess(lhs, rhs)
	case bytecode.BOpPow:
		result, opErr = lhs.Pow(rhs)
	case bytecode.BOpMul:
		result, opErr = lhs.Mul(rhs)
	case bytecode.BOpDiv:
		result, opErr = lhs.Div(rhs)
	case bytecode.BOpFloorDiv:
		result, opErr = lhs.FloorDiv(rhs)
	case bytecode.BOpMod:
		result, opErr = lhs.Mod(rhs)
	case bytecode.BOpAdd, bytecode.BOpAddEqual:
		result, opErr = lhs.Add(rhs)
	case bytecode.BOpSub, bytecode.BOpSubEqual:
		result, opErr = lhs.Sub(rhs)
	case bytecode.BOpIsEqual:
		result = runtime.NewBool(lhs.IsEqual(rhs))
	case bytecode.BOpIs:
		result = runtime.NewBool(lhs.Is(rhs))
	case bytecode.BOpNotEqual:
		result = runtime.NewBool(!lhs.IsEqual(rhs))
	case bytecode.BOpAnd:
		result = runtime.NewBool(lhs.AsBool() && rhs.AsBool())
	case bytecode.BOpOr:
		result = runtime.NewBool(lhs.AsBool() || rhs.AsBool())
	case bytecode.BOpLessThan:
		var b bool
		b, opErr = lhs.LessThan(rhs)
		result = runtime.NewBool(b)
	case bytecode.BOpLessThanOrEqual:
		var b bool
		b, opErr = lhs.LessThanOrEqual(rhs)
		result = runtime.NewBool(b)
	case bytecode.BOpGreaterThan:
		var b bool
		b, opErr = lhs.GreaterThan(rhs)
		result = runtime.NewBool(b)
	case bytecode.BOpGreaterThanOrEqual:
		var b bool
		b, opErr = lhs.GreaterThanOrEqual(rhs)
		result = runtime.NewBool(b)
	default:
		return newErr(TypeErr, "unknown binary operator")
	}
	if opErr != nil {
		return fromObjectErr(opErr)
	}
	vm.push(tempValue(result))
	return nil
}

// dotAccess implements `a . b`'s dual meaning (spec.md §4.3): a
// string RHS is an attribute name, anything else is an index.
func dotAccess(receiver, rhs runtime.Object) (runtime.Object, error) {
	if name, ok := rhs.(*runtime.StringObject); ok {
		return receiver.GetAttr(name.Value)
	}
	return receiver.GetItem(rhs)
}

// handleCall implements spec.md §4.4's Call(n): pop the callable and
// n arguments, dispatch to a built-in or a user function, and for a
// user function push a new frame and recurse into its chunk exactly
// as original_source/src/vm/vm.rs's handle_call does.
func (vm *VM) handleCall(n int) error {
	entries, err := vm.popN(n + 1)
	if err != nil {
		return err
	}
	callee, err := vm.resolve(entries[0])
	if err != nil {
		return err
	}
	args := make([]runtime.Object, n)
	for i, sv := range entries[1:] {
		obj, err := vm.resolve(sv)
		if err != nil {
			return err
		}
		args[i] = obj
	}

	if bf, ok := callee.AsBuiltinFunc(); ok {
		bound, err := checkCallArgs(bf.Params, args)
		if err != nil {
			return err
		}
		result, err := bf.Impl(vm.ctx, bound)
		if err != nil {
			return fromObjectErr(err)
		}
		if result == nil {
			result = runtime.NewNil()
		}
		vm.push(returnValue(result))
		return nil
	}

	fn, ok := callee.AsFunc()
	if !ok {
		return newErr(NotCallable, "%s is not callable", callee.TypeName())
	}
	bound, err := checkCallArgs(fn.Params, args)
	if err != nil {
		return err
	}

	vm.scopeStack = append(vm.scopeStack, len(vm.valueStack))
	vm.ctx.PushNamespace()
	if fn.Params == nil {
		vm.ctx.Declare("$args", bound[0])
	} else {
		for i, p := range fn.Params {
			vm.ctx.Declare(p, bound[i])
		}
	}

	if _, err := vm.Execute(fn.Chunk); err != nil {
		return err
	}
	return vm.exitScopes(1)
}

// checkCallArgs validates arity for a fixed-arity callable, or packs
// args into a single `$args` Tuple for a variadic one (params == nil),
// matching original_source's check_call_args.
func checkCallArgs(params ast.Params, args []runtime.Object) ([]runtime.Object, error) {
	if params == nil {
		return []runtime.Object{runtime.NewTuple(args)}, nil
	}
	if len(args) != len(params) {
		return nil, &RuntimeErr{Kind: TypeErr, Message: argCountMessage(len(params), len(args))}
	}
	return args, nil
}

func argCountMessage(want, got int) string {
	return itoa(want) + " argument(s) expected, got " + itoa(got)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
