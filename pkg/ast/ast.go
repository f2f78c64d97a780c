// Package ast defines the abstract syntax tree produced by pkg/parser
// and consumed by pkg/compiler. Every node category is a thin wrapper
// struct holding a kind-tagged union and a source span, the same
// "wrapper-plus-kind-enum" shape original_source/src/ast/ast.rs uses —
// generalized here to the full node set spec.md §3 requires (the
// original draft only covers Print/Label/Jump/Expr statements and
// UnaryOp/BinaryOp/Block/Function/Literal/Ident expressions; this
// package adds Conditional, Loop, Break, Continue, Call, Print, Tuple,
// and FormatString on top of that shape).
package ast

import (
	"math/big"

	"ember/pkg/token"
)

// Program is the root node: a module-level list of statements.
type Program struct {
	Statements []Statement
}

// Block is a list of statements evaluated in a new lexical scope; its
// value is the value of its last statement (or nil).
type Block struct {
	Statements []Statement
	Start      token.Location
	End        token.Location
}

// StatementKind tags the variant held by a Statement.
type StatementKind int

const (
	JumpStmt StatementKind = iota
	LabelStmt
	BreakStmt
	ContinueStmt
	ExprStmt
)

// Statement is one top-level or block-level unit, per spec.md §3:
// Jump(label), Label(name, Expr), Break(Expr), Continue, Expr(Expr).
type Statement struct {
	Kind StatementKind

	// Jump, Label
	Label string

	// Label, Break, Expr
	Expr *Expr

	Start token.Location
	End   token.Location
}

func NewJump(label string, loc token.Location) Statement {
	return Statement{Kind: JumpStmt, Label: label, Start: loc, End: loc}
}

func NewLabel(name string, expr *Expr, loc token.Location) Statement {
	return Statement{Kind: LabelStmt, Label: name, Expr: expr, Start: loc, End: loc}
}

func NewBreak(expr *Expr, loc token.Location) Statement {
	return Statement{Kind: BreakStmt, Expr: expr, Start: loc, End: loc}
}

func NewContinue(loc token.Location) Statement {
	return Statement{Kind: ContinueStmt, Start: loc, End: loc}
}

func NewExprStatement(expr Expr) Statement {
	return Statement{Kind: ExprStmt, Expr: &expr, Start: expr.Start, End: expr.End}
}

// ExprKind tags the variant held by an Expr.
type ExprKind int

const (
	LiteralExpr ExprKind = iota
	IdentExpr
	UnaryOpExpr
	BinaryOpExpr
	BlockExpr
	ConditionalExpr
	LoopExpr
	FuncExpr
	CallExpr
	PrintExpr
	TupleExpr
	FormatStringExpr
)

// CondBranch is one `cond -> block` arm of a Conditional expression.
type CondBranch struct {
	Cond  Expr
	Block Block
}

// Params is a function's formal parameter name list. nil means
// "variadic" (the `$args` tuple-packing convention, SPEC_FULL.md §3);
// a non-nil, possibly-empty slice means a fixed arity.
type Params []string

// Expr is an expression node — spec.md's single source of evaluated
// values. Exactly one of the kind-specific fields is meaningful,
// selected by Kind.
type Expr struct {
	Kind ExprKind

	Literal *Literal
	Ident   *Ident

	UnaryOp  string
	Operand  *Expr
	BinaryOp string
	Left     *Expr
	Right    *Expr

	Block *Block // BlockExpr, LoopExpr's body

	Branches []CondBranch // ConditionalExpr
	Default  *Block       // ConditionalExpr (optional else)

	LoopCond *Expr // LoopExpr

	FuncName   string // FuncExpr ("" for anonymous)
	FuncParams Params // FuncExpr

	Callee *Expr  // CallExpr
	Args   []Expr // CallExpr, PrintExpr, TupleExpr, FormatStringExpr

	Start token.Location
	End   token.Location
}

func NewLiteral(lit Literal, start, end token.Location) Expr {
	return Expr{Kind: LiteralExpr, Literal: &lit, Start: start, End: end}
}

func NewIdent(ident Ident, start, end token.Location) Expr {
	return Expr{Kind: IdentExpr, Ident: &ident, Start: start, End: end}
}

func NewUnaryOp(op string, operand Expr, start token.Location) Expr {
	return Expr{Kind: UnaryOpExpr, UnaryOp: op, Operand: &operand, Start: start, End: operand.End}
}

func NewBinaryOp(left Expr, op string, right Expr) Expr {
	return Expr{Kind: BinaryOpExpr, Left: &left, BinaryOp: op, Right: &right, Start: left.Start, End: right.End}
}

func NewBlock(block Block, start token.Location) Expr {
	return Expr{Kind: BlockExpr, Block: &block, Start: start, End: block.End}
}

func NewConditional(branches []CondBranch, def *Block, start token.Location) Expr {
	end := start
	if def != nil {
		end = def.End
	} else if len(branches) > 0 {
		end = branches[len(branches)-1].Block.End
	}
	return Expr{Kind: ConditionalExpr, Branches: branches, Default: def, Start: start, End: end}
}

func NewLoop(cond Expr, body Block, start token.Location) Expr {
	return Expr{Kind: LoopExpr, LoopCond: &cond, Block: &body, Start: start, End: body.End}
}

func NewFunc(name string, params Params, body Block, start token.Location) Expr {
	return Expr{Kind: FuncExpr, FuncName: name, FuncParams: params, Block: &body, Start: start, End: body.End}
}

func NewCall(callee Expr, args []Expr, end token.Location) Expr {
	return Expr{Kind: CallExpr, Callee: &callee, Args: args, Start: callee.Start, End: end}
}

func NewPrint(args []Expr, start, end token.Location) Expr {
	return Expr{Kind: PrintExpr, Args: args, Start: start, End: end}
}

func NewTuple(items []Expr, start, end token.Location) Expr {
	return Expr{Kind: TupleExpr, Args: items, Start: start, End: end}
}

func NewFormatString(parts []Expr, start, end token.Location) Expr {
	return Expr{Kind: FormatStringExpr, Args: parts, Start: start, End: end}
}

// LiteralKind tags the variant held by a Literal.
type LiteralKind int

const (
	NilLit LiteralKind = iota
	BoolLit
	IntLit
	FloatLit
	StringLit
	EllipsisLit
)

// Literal is a value written directly in source: nil, true/false, an
// arbitrary-precision integer, a float, a string, or the reserved-but-
// unimplemented `...` (spec.md §9 Open Questions).
type Literal struct {
	Kind   LiteralKind
	Bool   bool
	Int    *big.Int
	Float  float64
	String string
}

func NewNilLiteral() Literal          { return Literal{Kind: NilLit} }
func NewBoolLiteral(v bool) Literal   { return Literal{Kind: BoolLit, Bool: v} }
func NewIntLiteral(v *big.Int) Literal { return Literal{Kind: IntLit, Int: v} }
func NewFloatLiteral(v float64) Literal { return Literal{Kind: FloatLit, Float: v} }
func NewStringLiteral(v string) Literal { return Literal{Kind: StringLit, String: v} }
func NewEllipsisLiteral() Literal     { return Literal{Kind: EllipsisLit} }

// IdentKind distinguishes plain identifiers from type identifiers.
type IdentKind int

const (
	PlainIdent IdentKind = iota
	TypeIdentKind
)

// Ident names a variable, function, or type.
type Ident struct {
	Kind IdentKind
	Name string
}

func NewIdentNode(name string) Ident     { return Ident{Kind: PlainIdent, Name: name} }
func NewTypeIdentNode(name string) Ident { return Ident{Kind: TypeIdentKind, Name: name} }
