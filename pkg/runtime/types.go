package runtime

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// NilObject is ember's singular nil value.
type NilObject struct{ base }

func NewNil() *NilObject { return &NilObject{base{typeName: "Nil"}} }

func (n *NilObject) Display() string  { return "nil" }
func (n *NilObject) AsBool() bool     { return false }
func (n *NilObject) IsEqual(o Object) bool {
	_, ok := o.(*NilObject)
	return ok
}
func (n *NilObject) Is(o Object) bool { return n.IsEqual(o) }

// BoolObject wraps a boolean.
type BoolObject struct {
	base
	Value bool
}

func NewBool(v bool) *BoolObject { return &BoolObject{base{typeName: "Bool"}, v} }

func (b *BoolObject) Display() string { return fmt.Sprintf("%t", b.Value) }
func (b *BoolObject) AsBool() bool    { return b.Value }
func (b *BoolObject) Not() Object     { return NewBool(!b.Value) }
func (b *BoolObject) IsEqual(o Object) bool {
	ob, ok := o.(*BoolObject)
	return ok && ob.Value == b.Value
}
func (b *BoolObject) Is(o Object) bool { return b.IsEqual(o) }

// IntObject wraps an arbitrary-precision integer (spec.md §9:
// math/big is the idiomatic ecosystem choice the teacher's own corpus
// has no competing candidate for — see SPEC_FULL.md §2).
type IntObject struct {
	base
	Value *big.Int
}

func NewInt(v *big.Int) *IntObject { return &IntObject{base{typeName: "Int"}, v} }

func (i *IntObject) Display() string { return i.Value.String() }
func (i *IntObject) AsBool() bool    { return i.Value.Sign() != 0 }

func (i *IntObject) asFloat() float64 {
	f := new(big.Float).SetInt(i.Value)
	v, _ := f.Float64()
	return v
}

func (i *IntObject) Add(other Object) (Object, error) {
	switch o := other.(type) {
	case *IntObject:
		return NewInt(new(big.Int).Add(i.Value, o.Value)), nil
	case *FloatObject:
		return NewFloat(i.asFloat() + o.Value), nil
	default:
		return nil, typeErr("+", i, other)
	}
}

func (i *IntObject) Sub(other Object) (Object, error) {
	switch o := other.(type) {
	case *IntObject:
		return NewInt(new(big.Int).Sub(i.Value, o.Value)), nil
	case *FloatObject:
		return NewFloat(i.asFloat() - o.Value), nil
	default:
		return nil, typeErr("-", i, other)
	}
}

func (i *IntObject) Mul(other Object) (Object, error) {
	switch o := other.(type) {
	case *IntObject:
		return NewInt(new(big.Int).Mul(i.Value, o.Value)), nil
	case *FloatObject:
		return NewFloat(i.asFloat() * o.Value), nil
	default:
		return nil, typeErr("*", i, other)
	}
}

// Div always produces a Float, regardless of operand types (spec.md
// §9's explicit BigInt division rule).
func (i *IntObject) Div(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("/", i, other)
	}
	return NewFloat(i.asFloat() / rhs), nil
}

// FloorDiv always produces an Int; dividing by zero is a ZeroDivision
// fault rather than propagating an Inf/NaN the way Div's float path
// would.
func (i *IntObject) FloorDiv(other Object) (Object, error) {
	o, ok := other.(*IntObject)
	if !ok {
		return nil, typeErr("//", i, other)
	}
	if o.Value.Sign() == 0 {
		return nil, newErr(ZeroDivision, "integer division by zero")
	}
	q := new(big.Int)
	q.Div(i.Value, o.Value) // Euclidean division, floor-consistent for a positive divisor
	return NewInt(q), nil
}

func (i *IntObject) Mod(other Object) (Object, error) {
	o, ok := other.(*IntObject)
	if !ok {
		return nil, typeErr("%", i, other)
	}
	if o.Value.Sign() == 0 {
		return nil, newErr(ZeroDivision, "integer modulo by zero")
	}
	m := new(big.Int)
	m.Mod(i.Value, o.Value)
	return NewInt(m), nil
}

func (i *IntObject) Pow(other Object) (Object, error) {
	switch o := other.(type) {
	case *IntObject:
		if o.Value.Sign() < 0 {
			return NewFloat(math.Pow(i.asFloat(), o.asFloat())), nil
		}
		return NewInt(new(big.Int).Exp(i.Value, o.Value, nil)), nil
	case *FloatObject:
		return NewFloat(math.Pow(i.asFloat(), o.Value)), nil
	default:
		return nil, typeErr("^", i, other)
	}
}

func (i *IntObject) Negate() (Object, error) {
	return NewInt(new(big.Int).Neg(i.Value)), nil
}

func (i *IntObject) LessThan(other Object) (bool, error) {
	return compareNumeric(i, other, "<", func(c int) bool { return c < 0 })
}
func (i *IntObject) GreaterThan(other Object) (bool, error) {
	return compareNumeric(i, other, ">", func(c int) bool { return c > 0 })
}
func (i *IntObject) LessThanOrEqual(other Object) (bool, error) {
	return compareNumeric(i, other, "<=", func(c int) bool { return c <= 0 })
}
func (i *IntObject) GreaterThanOrEqual(other Object) (bool, error) {
	return compareNumeric(i, other, ">=", func(c int) bool { return c >= 0 })
}

func (i *IntObject) IsEqual(other Object) bool {
	switch o := other.(type) {
	case *IntObject:
		return i.Value.Cmp(o.Value) == 0
	case *FloatObject:
		return i.asFloat() == o.Value
	default:
		return false
	}
}
func (i *IntObject) Is(other Object) bool {
	o, ok := other.(*IntObject)
	return ok && i == o
}

// FloatObject wraps an IEEE-754 double.
type FloatObject struct {
	base
	Value float64
}

func NewFloat(v float64) *FloatObject { return &FloatObject{base{typeName: "Float"}, v} }

func (f *FloatObject) Display() string { return fmt.Sprintf("%g", f.Value) }
func (f *FloatObject) AsBool() bool    { return f.Value != 0 }
func (f *FloatObject) asFloat() float64 { return f.Value }

func (f *FloatObject) Add(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("+", f, other)
	}
	return NewFloat(f.Value + rhs), nil
}

func (f *FloatObject) Sub(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("-", f, other)
	}
	return NewFloat(f.Value - rhs), nil
}

func (f *FloatObject) Mul(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("*", f, other)
	}
	return NewFloat(f.Value * rhs), nil
}

func (f *FloatObject) Div(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("/", f, other)
	}
	return NewFloat(f.Value / rhs), nil
}

func (f *FloatObject) FloorDiv(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("//", f, other)
	}
	return NewInt(big.NewInt(int64(math.Floor(f.Value / rhs)))), nil
}

func (f *FloatObject) Mod(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("%", f, other)
	}
	return NewFloat(math.Mod(f.Value, rhs)), nil
}

func (f *FloatObject) Pow(other Object) (Object, error) {
	rhs, err := asFloatOperand(other)
	if err != nil {
		return nil, typeErr("^", f, other)
	}
	return NewFloat(math.Pow(f.Value, rhs)), nil
}

func (f *FloatObject) Negate() (Object, error) { return NewFloat(-f.Value), nil }

func (f *FloatObject) LessThan(other Object) (bool, error) {
	return compareNumeric(f, other, "<", func(c int) bool { return c < 0 })
}
func (f *FloatObject) GreaterThan(other Object) (bool, error) {
	return compareNumeric(f, other, ">", func(c int) bool { return c > 0 })
}
func (f *FloatObject) LessThanOrEqual(other Object) (bool, error) {
	return compareNumeric(f, other, "<=", func(c int) bool { return c <= 0 })
}
func (f *FloatObject) GreaterThanOrEqual(other Object) (bool, error) {
	return compareNumeric(f, other, ">=", func(c int) bool { return c >= 0 })
}

func (f *FloatObject) IsEqual(other Object) bool {
	rhs, err := asFloatOperand(other)
	return err == nil && rhs == f.Value
}
func (f *FloatObject) Is(other Object) bool {
	o, ok := other.(*FloatObject)
	return ok && f == o
}

type numericOperand interface {
	asFloat() float64
}

func asFloatOperand(o Object) (float64, error) {
	n, ok := o.(numericOperand)
	if !ok {
		return 0, newErr(TypeErr, "%s is not numeric", o.TypeName())
	}
	return n.asFloat(), nil
}

func compareNumeric(a Object, b Object, op string, test func(int) bool) (bool, error) {
	af, aerr := asFloatOperand(a)
	bf, berr := asFloatOperand(b)
	if aerr != nil || berr != nil {
		return false, typeErr(op, a, b)
	}
	switch {
	case af < bf:
		return test(-1), nil
	case af > bf:
		return test(1), nil
	default:
		return test(0), nil
	}
}

// StringObject wraps a text value. GetItem indexes by code point,
// mirroring original_source's string-as-char-tuple indexing behavior;
// GetAttr is unsupported (strings carry no named attributes).
type StringObject struct {
	base
	Value string
}

func NewString(v string) *StringObject { return &StringObject{base{typeName: "String"}, v} }

func (s *StringObject) Display() string { return s.Value }
func (s *StringObject) AsBool() bool    { return len(s.Value) > 0 }

func (s *StringObject) Add(other Object) (Object, error) {
	o, ok := other.(*StringObject)
	if !ok {
		return nil, typeErr("+", s, other)
	}
	return NewString(s.Value + o.Value), nil
}

func (s *StringObject) IsEqual(other Object) bool {
	o, ok := other.(*StringObject)
	return ok && o.Value == s.Value
}
func (s *StringObject) Is(other Object) bool {
	o, ok := other.(*StringObject)
	return ok && s == o
}

func (s *StringObject) GetItem(index Object) (Object, error) {
	i, ok := index.(*IntObject)
	if !ok {
		return nil, typeErr("indexing", s, index)
	}
	runes := []rune(s.Value)
	idx := int(i.Value.Int64())
	if idx < 0 {
		idx += len(runes)
	}
	if idx < 0 || idx >= len(runes) {
		return nil, newErr(TypeErr, "string index %d out of range", idx)
	}
	return NewString(string(runes[idx])), nil
}

// TupleObject is an immutable fixed-length sequence, ember's packed
// multi-value type (function results, `$args` variadic packing).
type TupleObject struct {
	base
	Items []Object
}

func NewTuple(items []Object) *TupleObject {
	return &TupleObject{base{typeName: "Tuple"}, items}
}

func (t *TupleObject) Display() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.Display()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TupleObject) AsBool() bool { return len(t.Items) > 0 }

func (t *TupleObject) IsEqual(other Object) bool {
	o, ok := other.(*TupleObject)
	if !ok || len(o.Items) != len(t.Items) {
		return false
	}
	for i, it := range t.Items {
		if !it.IsEqual(o.Items[i]) {
			return false
		}
	}
	return true
}
func (t *TupleObject) Is(other Object) bool {
	o, ok := other.(*TupleObject)
	return ok && t == o
}

func (t *TupleObject) GetItem(index Object) (Object, error) {
	i, ok := index.(*IntObject)
	if !ok {
		return nil, typeErr("indexing", t, index)
	}
	idx := int(i.Value.Int64())
	if idx < 0 {
		idx += len(t.Items)
	}
	if idx < 0 || idx >= len(t.Items) {
		return nil, newErr(TypeErr, "tuple index %d out of range", idx)
	}
	return t.Items[idx], nil
}

func (t *TupleObject) GetAttr(name string) (Object, error) {
	if name == "length" {
		return NewInt(big.NewInt(int64(len(t.Items)))), nil
	}
	return nil, newErr(AttrDoesNotExist, "Tuple has no attribute %q", name)
}
