package runtime

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// registerBuiltins seeds the root namespace with ember's minimal
// built-in catalog (SPEC_FULL.md §4): print, type, str, int, float.
// Each is a BuiltinFuncObject so it can also be passed around as an
// ordinary value (assigned, stored in a tuple, etc.), not just called
// by keyword.
func registerBuiltins(root *Namespace) {
	root.Declare("print", NewBuiltinFunc("print", nil, builtinPrint))
	root.Declare("type", NewBuiltinFunc("type", ast1Param, builtinType))
	root.Declare("str", NewBuiltinFunc("str", ast1Param, builtinStr))
	root.Declare("int", NewBuiltinFunc("int", ast1Param, builtinInt))
	root.Declare("float", NewBuiltinFunc("float", ast1Param, builtinFloat))
}

// ast1Param is shared by every fixed-arity, single-argument builtin.
var ast1Param = []string{"x"}

// builtinPrint is variadic: the VM's call-binding convention packs
// all arguments into a single `$args` Tuple before Impl runs (the same
// convention a variadic user function gets), so Impl here receives
// that one Tuple as args[0] rather than the raw argument list.
func builtinPrint(ctx *RuntimeContext, args []Object) (Object, error) {
	tuple, ok := args[0].(*TupleObject)
	if !ok {
		return nil, newErr(TypeErr, "print: expected packed argument tuple")
	}
	parts := make([]string, len(tuple.Items))
	for i, v := range tuple.Items {
		parts[i] = v.Display()
	}
	fmt.Println(strings.Join(parts, " "))
	return NewNil(), nil
}

func builtinType(ctx *RuntimeContext, args []Object) (Object, error) {
	return NewString(args[0].TypeName()), nil
}

func builtinStr(ctx *RuntimeContext, args []Object) (Object, error) {
	return NewString(args[0].Display()), nil
}

func builtinInt(ctx *RuntimeContext, args []Object) (Object, error) {
	switch v := args[0].(type) {
	case *IntObject:
		return v, nil
	case *FloatObject:
		bi, _ := big.NewFloat(v.Value).Int(nil)
		return NewInt(bi), nil
	case *StringObject:
		n := new(big.Int)
		if _, ok := n.SetString(strings.TrimSpace(v.Value), 10); !ok {
			return nil, newErr(TypeErr, "cannot convert %q to Int", v.Value)
		}
		return NewInt(n), nil
	case *BoolObject:
		if v.Value {
			return NewInt(big.NewInt(1)), nil
		}
		return NewInt(big.NewInt(0)), nil
	default:
		return nil, newErr(TypeErr, "cannot convert %s to Int", args[0].TypeName())
	}
}

func builtinFloat(ctx *RuntimeContext, args []Object) (Object, error) {
	switch v := args[0].(type) {
	case *FloatObject:
		return v, nil
	case *IntObject:
		return NewFloat(v.asFloat()), nil
	case *StringObject:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return nil, newErr(TypeErr, "cannot convert %q to Float", v.Value)
		}
		return NewFloat(f), nil
	case *BoolObject:
		if v.Value {
			return NewFloat(1), nil
		}
		return NewFloat(0), nil
	default:
		return nil, newErr(TypeErr, "cannot convert %s to Float", args[0].TypeName())
	}
}
