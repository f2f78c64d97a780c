package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnaryOperatorString(t *testing.T) {
	require.Equal(t, "+", UOpPlus.String())
	require.Equal(t, "-", UOpNegate.String())
	require.Equal(t, "!!", UOpAsBool.String())
	require.Equal(t, "!", UOpNot.String())
	require.Contains(t, UnaryOperator(99).String(), "UnaryOperator(99)")
}

func TestBinaryOperatorString(t *testing.T) {
	require.Equal(t, "^", BOpPow.String())
	require.Equal(t, "is", BOpIs.String())
	require.Equal(t, ".", BOpDot.String())
	require.Contains(t, BinaryOperator(99).String(), "BinaryOperator(99)")
}

func TestInstDisassemblyFormat(t *testing.T) {
	cases := []struct {
		inst Inst
		want string
	}{
		{NoOp{}, "NOOP"},
		{Truncate{N: 3}, "TRUNCATE 3"},
		{LoadConst{Index: 2}, "LOAD_CONST 2"},
		{ScopeStart{}, "SCOPE_START"},
		{ScopeEnd{}, "SCOPE_END"},
		{DeclareVar{Name: "x"}, "DECLARE_VAR x"},
		{AssignVar{Name: "x"}, "ASSIGN_VAR x"},
		{LoadVar{Name: "x"}, "LOAD_VAR x"},
		{Jump{Addr: 5, ScopeExitCount: 1}, "JUMP 5 (exit 1)"},
		{JumpIf{Addr: 5, ScopeExitCount: 0}, "JUMP_IF 5 (exit 0)"},
		{JumpIfNot{Addr: 5, ScopeExitCount: 0}, "JUMP_IF_NOT 5 (exit 0)"},
		{JumpIfElse{IfAddr: 1, ElseAddr: 2, ScopeExitCount: 0}, "JUMP_IF_ELSE 1 : 2 (exit 0)"},
		{UnaryOp{Op: UOpNegate}, "UNARY_OP -"},
		{BinaryOp{Op: BOpAdd}, "BINARY_OP +"},
		{MakeString{N: 2}, "MAKE_STRING 2"},
		{MakeTuple{N: 2}, "MAKE_TUPLE 2"},
		{Call{N: 1}, "CALL 1"},
		{Return{}, "RETURN"},
		{Halt{Code: 0}, "HALT 0"},
		{HaltTop{}, "HALT_TOP"},
		{BreakPlaceholder{Addr: 4}, "PLACEHOLDER BREAK @ 4"},
		{ContinuePlaceholder{Addr: 4}, "PLACEHOLDER CONTINUE @ 4"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.inst.String())
	}
}

func TestPlaceholderWrapsInnerInst(t *testing.T) {
	p := Placeholder{Addr: 3, Wrapped: Jump{Addr: 0}, Message: "label not found"}
	require.Contains(t, p.String(), "PLACEHOLDER")
	require.Contains(t, p.String(), "label not found")
}

func TestChunkIsOrderedInstList(t *testing.T) {
	chunk := Chunk{LoadConst{Index: 0}, Halt{Code: 0}}
	require.Len(t, chunk, 2)
	require.Equal(t, "LOAD_CONST 0", chunk[0].String())
}
