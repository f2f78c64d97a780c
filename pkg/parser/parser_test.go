package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/pkg/ast"
	"ember/pkg/scanner"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p, err := New(src)
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0]
	require.Equal(t, ast.ExprStmt, stmt.Kind)
	return *stmt.Expr
}

func TestParseIntLiteral(t *testing.T) {
	expr := parseExpr(t, "42")
	require.Equal(t, ast.LiteralExpr, expr.Kind)
	require.Equal(t, ast.IntLit, expr.Literal.Kind)
	require.Equal(t, int64(42), expr.Literal.Int.Int64())
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 must bind as 1 + (2 * 3)
	expr := parseExpr(t, "1 + 2 * 3")
	require.Equal(t, ast.BinaryOpExpr, expr.Kind)
	require.Equal(t, "+", expr.BinaryOp)
	require.Equal(t, ast.LiteralExpr, expr.Left.Kind)
	require.Equal(t, ast.BinaryOpExpr, expr.Right.Kind)
	require.Equal(t, "*", expr.Right.BinaryOp)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 must bind as 2 ^ (3 ^ 2)
	expr := parseExpr(t, "2 ^ 3 ^ 2")
	require.Equal(t, "^", expr.BinaryOp)
	require.Equal(t, ast.LiteralExpr, expr.Left.Kind)
	require.Equal(t, ast.BinaryOpExpr, expr.Right.Kind)
	require.Equal(t, "^", expr.Right.BinaryOp)
}

func TestParseUnaryMinus(t *testing.T) {
	expr := parseExpr(t, "-5")
	require.Equal(t, ast.UnaryOpExpr, expr.Kind)
	require.Equal(t, "-", expr.UnaryOp)
}

func TestParseCallExpression(t *testing.T) {
	expr := parseExpr(t, "foo(1, 2)")
	require.Equal(t, ast.CallExpr, expr.Kind)
	require.Equal(t, ast.IdentExpr, expr.Callee.Kind)
	require.Equal(t, "foo", expr.Callee.Ident.Name)
	require.Len(t, expr.Args, 2)
}

func TestParseAnonymousFuncLiteral(t *testing.T) {
	expr := parseExpr(t, "(a, b) ->\n    a + b")
	require.Equal(t, ast.FuncExpr, expr.Kind)
	require.Equal(t, "", expr.FuncName)
	require.Equal(t, ast.Params{"a", "b"}, expr.FuncParams)
}

func TestParseNamedFuncLiteral(t *testing.T) {
	expr := parseExpr(t, "add(a, b) ->\n    a + b")
	require.Equal(t, ast.FuncExpr, expr.Kind)
	require.Equal(t, "add", expr.FuncName)
	require.Equal(t, ast.Params{"a", "b"}, expr.FuncParams)
}

func TestParseVariadicFuncLiteralHasNilParams(t *testing.T) {
	expr := parseExpr(t, "f() ->\n    1")
	require.Equal(t, ast.FuncExpr, expr.Kind)
	require.Nil(t, expr.FuncParams)
}

func TestParseTupleAndParenGrouping(t *testing.T) {
	expr := parseExpr(t, "(1, 2, 3)")
	require.Equal(t, ast.TupleExpr, expr.Kind)
	require.Len(t, expr.Args, 3)

	grouped := parseExpr(t, "(1 + 2)")
	require.Equal(t, ast.BinaryOpExpr, grouped.Kind)
}

func TestParseConditionalWithElseIfAndElse(t *testing.T) {
	src := "if a ->\n    1\nelse if b ->\n    2\nelse ->\n    3"
	expr := parseExpr(t, src)
	require.Equal(t, ast.ConditionalExpr, expr.Kind)
	require.Len(t, expr.Branches, 2)
	require.NotNil(t, expr.Default)
}

func TestParseLoop(t *testing.T) {
	expr := parseExpr(t, "loop true ->\n    break")
	require.Equal(t, ast.LoopExpr, expr.Kind)
	require.NotNil(t, expr.LoopCond)
}

func TestParseBreakOutsideLoopIsError(t *testing.T) {
	p, err := New("break")
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.Error(t, err)
	perr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, UnexpectedBreak, perr.Kind)
}

func TestParseContinueOutsideLoopIsError(t *testing.T) {
	p, err := New("continue")
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.Error(t, err)
	perr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, UnexpectedContinue, perr.Kind)
}

func TestParseJumpStatement(t *testing.T) {
	p, err := New("jump done")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	require.Equal(t, ast.JumpStmt, prog.Statements[0].Kind)
	require.Equal(t, "done", prog.Statements[0].Label)
}

func TestParseDotAccessIsBinaryOp(t *testing.T) {
	expr := parseExpr(t, "obj.field")
	require.Equal(t, ast.BinaryOpExpr, expr.Kind)
	require.Equal(t, ".", expr.BinaryOp)
}

func TestParseIndexLowersToDotBinaryOp(t *testing.T) {
	expr := parseExpr(t, "xs[0]")
	require.Equal(t, ast.BinaryOpExpr, expr.Kind)
	require.Equal(t, ".", expr.BinaryOp)
}

func TestParseUnclosedParenIsError(t *testing.T) {
	// the scanner rejects a bracket still open at end of input
	_, err := New("(1, 2")
	require.Error(t, err)
	perr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, ScanErr, perr.Kind)
	var serr *scanner.Err
	require.ErrorAs(t, err, &serr)
	require.Equal(t, scanner.UnmatchedOpeningBracket, serr.Kind)
}

func TestParsePrintWithNoArgs(t *testing.T) {
	expr := parseExpr(t, "print")
	require.Equal(t, ast.PrintExpr, expr.Kind)
	require.Nil(t, expr.Args)
}

func TestParsePrintWithParenArgs(t *testing.T) {
	expr := parseExpr(t, "print(1, 2)")
	require.Equal(t, ast.PrintExpr, expr.Kind)
	require.Len(t, expr.Args, 2)
}

func TestScanErrorPropagatesAsParserErr(t *testing.T) {
	_, err := New(")")
	require.Error(t, err)
	perr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, ScanErr, perr.Kind)
}
