package ast

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/pkg/token"
)

func loc(line, col int) token.Location { return token.Location{Line: line, Col: col} }

func TestNewBinaryOpSpansBothOperands(t *testing.T) {
	left := NewLiteral(NewIntLiteral(big.NewInt(1)), loc(1, 1), loc(1, 2))
	right := NewLiteral(NewIntLiteral(big.NewInt(2)), loc(1, 5), loc(1, 6))

	expr := NewBinaryOp(left, "+", right)

	require.Equal(t, BinaryOpExpr, expr.Kind)
	require.Equal(t, "+", expr.BinaryOp)
	require.Equal(t, loc(1, 1), expr.Start)
	require.Equal(t, loc(1, 6), expr.End)
}

func TestNewUnaryOpSpansFromOperator(t *testing.T) {
	operand := NewIdent(NewIdentNode("x"), loc(2, 3), loc(2, 4))
	expr := NewUnaryOp("-", operand, loc(2, 2))

	require.Equal(t, UnaryOpExpr, expr.Kind)
	require.Equal(t, loc(2, 2), expr.Start)
	require.Equal(t, loc(2, 4), expr.End)
}

func TestNewConditionalEndFollowsDefaultWhenPresent(t *testing.T) {
	branch := CondBranch{
		Cond:  NewIdent(NewIdentNode("a"), loc(1, 1), loc(1, 2)),
		Block: Block{Start: loc(1, 5), End: loc(1, 10)},
	}
	def := &Block{Start: loc(2, 1), End: loc(2, 20)}

	expr := NewConditional([]CondBranch{branch}, def, loc(1, 1))
	require.Equal(t, loc(2, 20), expr.End)

	noDefault := NewConditional([]CondBranch{branch}, nil, loc(1, 1))
	require.Equal(t, loc(1, 10), noDefault.End)
}

func TestNewFuncCarriesNilParamsForVariadic(t *testing.T) {
	body := Block{Start: loc(1, 1), End: loc(1, 5)}
	variadic := NewFunc("greet", nil, body, loc(1, 1))
	require.Nil(t, variadic.FuncParams)

	fixed := NewFunc("add", Params{"a", "b"}, body, loc(1, 1))
	require.Equal(t, Params{"a", "b"}, fixed.FuncParams)
}

func TestNewExprStatementInheritsSpan(t *testing.T) {
	expr := NewIdent(NewIdentNode("x"), loc(3, 1), loc(3, 2))
	stmt := NewExprStatement(expr)

	require.Equal(t, ExprStmt, stmt.Kind)
	require.Equal(t, loc(3, 1), stmt.Start)
	require.Equal(t, loc(3, 2), stmt.End)
	require.Same(t, stmt.Expr.Ident, expr.Ident)
}

func TestLiteralConstructors(t *testing.T) {
	require.Equal(t, NilLit, NewNilLiteral().Kind)
	require.Equal(t, BoolLit, NewBoolLiteral(true).Kind)
	require.True(t, NewBoolLiteral(true).Bool)
	require.Equal(t, IntLit, NewIntLiteral(big.NewInt(7)).Kind)
	require.Equal(t, FloatLit, NewFloatLiteral(1.5).Kind)
	require.Equal(t, StringLit, NewStringLiteral("hi").Kind)
	require.Equal(t, EllipsisLit, NewEllipsisLiteral().Kind)
}
