package runtime

// Object is the capability interface every ember value implements.
// Arithmetic/comparison/attribute methods are double-dispatched in the
// Rust-original sense (original_source/src/vm/vm.rs calls e.g.
// `lhs.add(rhs, &ctx)`): the receiver decides whether it supports the
// operation and, for mixed-type arithmetic, how to combine with the
// operand's concrete type. Every variant embeds base, which supplies a
// TypeErr-returning default for every capability it doesn't override —
// this keeps e.g. StringObject from having to hand-write nine
// arithmetic method stubs it doesn't support.
type Object interface {
	TypeName() string
	Display() string

	AsBool() bool
	Not() Object

	Add(other Object) (Object, error)
	Sub(other Object) (Object, error)
	Mul(other Object) (Object, error)
	Div(other Object) (Object, error)
	FloorDiv(other Object) (Object, error)
	Mod(other Object) (Object, error)
	Pow(other Object) (Object, error)
	Negate() (Object, error)

	LessThan(other Object) (bool, error)
	GreaterThan(other Object) (bool, error)
	LessThanOrEqual(other Object) (bool, error)
	GreaterThanOrEqual(other Object) (bool, error)

	IsEqual(other Object) bool
	Is(other Object) bool

	GetAttr(name string) (Object, error)
	GetItem(index Object) (Object, error)

	AsFunc() (*FuncObject, bool)
	AsBuiltinFunc() (*BuiltinFuncObject, bool)
}

// base implements every Object capability as an unsupported-operation
// error (or the conservative default for predicates), so concrete
// variants only need to override what they actually support.
type base struct {
	typeName string
}

func (b base) TypeName() string { return b.typeName }
func (b base) Display() string  { return "<" + b.typeName + ">" }

func (b base) AsBool() bool { return true }
func (b base) Not() Object  { return NewBool(!b.AsBool()) }

func (b base) Add(other Object) (Object, error)      { return nil, typeErr("+", b, other) }
func (b base) Sub(other Object) (Object, error)      { return nil, typeErr("-", b, other) }
func (b base) Mul(other Object) (Object, error)      { return nil, typeErr("*", b, other) }
func (b base) Div(other Object) (Object, error)      { return nil, typeErr("/", b, other) }
func (b base) FloorDiv(other Object) (Object, error) { return nil, typeErr("//", b, other) }
func (b base) Mod(other Object) (Object, error)      { return nil, typeErr("%", b, other) }
func (b base) Pow(other Object) (Object, error)      { return nil, typeErr("^", b, other) }
func (b base) Negate() (Object, error)               { return nil, typeErr("unary -", b, nil) }

func (b base) LessThan(other Object) (bool, error)           { return false, typeErr("<", b, other) }
func (b base) GreaterThan(other Object) (bool, error)        { return false, typeErr(">", b, other) }
func (b base) LessThanOrEqual(other Object) (bool, error)    { return false, typeErr("<=", b, other) }
func (b base) GreaterThanOrEqual(other Object) (bool, error) { return false, typeErr(">=", b, other) }

func (b base) IsEqual(other Object) bool { return false }
func (b base) Is(other Object) bool      { return false }

func (b base) GetAttr(name string) (Object, error) {
	return nil, newErr(AttrDoesNotExist, "%s has no attribute %q", b.typeName, name)
}

func (b base) GetItem(index Object) (Object, error) {
	return nil, typeErr("indexing", b, index)
}

func (b base) AsFunc() (*FuncObject, bool)               { return nil, false }
func (b base) AsBuiltinFunc() (*BuiltinFuncObject, bool) { return nil, false }
