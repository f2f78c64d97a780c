package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/pkg/bytecode"
	"ember/pkg/parser"
	"ember/pkg/runtime"
)

func compileSrc(t *testing.T, src string) bytecode.Chunk {
	t.Helper()
	p, err := parser.New(src)
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	chunk, err := CompileModule(prog, runtime.NewConstPool(), nil)
	require.NoError(t, err)
	return chunk
}

func lastInst(chunk bytecode.Chunk) bytecode.Inst { return chunk[len(chunk)-1] }

func TestCompileModuleWithoutMainEndsInHalt(t *testing.T) {
	chunk := compileSrc(t, "1 + 2")
	require.IsType(t, bytecode.Halt{}, lastInst(chunk))
}

func TestCompileModuleWithMainEmitsEntryPointCall(t *testing.T) {
	chunk := compileSrc(t, "$main = (argc, argv) ->\n    1")
	var sawLoadMain, sawCall bool
	for _, inst := range chunk {
		if lv, ok := inst.(bytecode.LoadVar); ok && lv.Name == "$main" {
			sawLoadMain = true
		}
		if c, ok := inst.(bytecode.Call); ok && c.N == 2 {
			sawCall = true
		}
	}
	require.True(t, sawLoadMain)
	require.True(t, sawCall)
	require.IsType(t, bytecode.HaltTop{}, lastInst(chunk))
}

func TestCompileAssignmentEmitsDeclareThenAssign(t *testing.T) {
	chunk := compileSrc(t, "x = 1")
	var sawDeclare, sawAssign bool
	for _, inst := range chunk {
		if d, ok := inst.(bytecode.DeclareVar); ok && d.Name == "x" {
			sawDeclare = true
		}
		if a, ok := inst.(bytecode.AssignVar); ok && a.Name == "x" {
			sawAssign = true
			require.True(t, sawDeclare, "DeclareVar must precede AssignVar")
		}
	}
	require.True(t, sawAssign)
}

func TestCompileCompoundAssignmentSkipsDeclare(t *testing.T) {
	chunk := compileSrc(t, "x += 1")
	for _, inst := range chunk {
		_, isDeclare := inst.(bytecode.DeclareVar)
		require.False(t, isDeclare, "+= must not re-declare the name")
	}
}

func TestCompileBinaryOpEmitsOperandsThenOp(t *testing.T) {
	chunk := compileSrc(t, "1 + 2")
	require.IsType(t, bytecode.LoadConst{}, chunk[0])
	require.IsType(t, bytecode.LoadConst{}, chunk[1])
	bop, ok := chunk[2].(bytecode.BinaryOp)
	require.True(t, ok)
	require.Equal(t, bytecode.BOpAdd, bop.Op)
}

func TestCompileDotWithIdentRHSLoadsStringConst(t *testing.T) {
	chunk := compileSrc(t, "obj.field")
	var sawDot bool
	for _, inst := range chunk {
		if bop, ok := inst.(bytecode.BinaryOp); ok && bop.Op == bytecode.BOpDot {
			sawDot = true
		}
	}
	require.True(t, sawDot)
	// the field name is the first constant added after nil/true/false
	lc, ok := chunk[1].(bytecode.LoadConst)
	require.True(t, ok)
	require.Equal(t, 3, lc.Index)
}

func TestCompileBlockWrapsScopeStartEnd(t *testing.T) {
	chunk := compileSrc(t, "block ->\n    1")
	var sawStart, sawEnd bool
	for _, inst := range chunk {
		if _, ok := inst.(bytecode.ScopeStart); ok {
			sawStart = true
		}
		if _, ok := inst.(bytecode.ScopeEnd); ok {
			sawEnd = true
		}
	}
	require.True(t, sawStart)
	require.True(t, sawEnd)
}

func TestCompileConditionalPatchesJumpIfElse(t *testing.T) {
	chunk := compileSrc(t, "if true ->\n    1\nelse ->\n    2")
	var found bool
	for _, inst := range chunk {
		if je, ok := inst.(bytecode.JumpIfElse); ok {
			found = true
			require.NotEqual(t, 0, je.IfAddr)
			require.NotEqual(t, 0, je.ElseAddr)
		}
		_, isPlaceholder := inst.(bytecode.Placeholder)
		require.False(t, isPlaceholder, "no Placeholder should remain after compilation")
	}
	require.True(t, found)
}

func TestCompileLoopPatchesBreakAndContinue(t *testing.T) {
	chunk := compileSrc(t, "loop true ->\n    break")
	for _, inst := range chunk {
		_, isBreak := inst.(bytecode.BreakPlaceholder)
		_, isContinue := inst.(bytecode.ContinuePlaceholder)
		require.False(t, isBreak)
		require.False(t, isContinue)
	}
}

func TestCompileJumpToKnownLabelResolves(t *testing.T) {
	chunk := compileSrc(t, "jump done\ndone: 1")
	for _, inst := range chunk {
		_, isPlaceholder := inst.(bytecode.Placeholder)
		require.False(t, isPlaceholder)
	}
}

func TestCompileJumpToUnknownLabelErrors(t *testing.T) {
	p, err := parser.New("jump nowhere")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = CompileModule(prog, runtime.NewConstPool(), nil)
	require.Error(t, err)
	cerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, LabelNotFoundInScope, cerr.Kind)
}

func TestCompileAssignToNonIdentIsInvalidTarget(t *testing.T) {
	p, err := parser.New("1 = 2")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = CompileModule(prog, runtime.NewConstPool(), nil)
	require.Error(t, err)
	cerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, InvalidAssignTarget, cerr.Kind)
}

func TestCompileFuncLiteralAddsFuncObjectToPool(t *testing.T) {
	pool := runtime.NewConstPool()
	p, err := parser.New("add(a, b) ->\n    a + b")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = CompileModule(prog, pool, nil)
	require.NoError(t, err)

	var found bool
	for i := 0; i < pool.Len(); i++ {
		if fn, ok := pool.Get(i).(*runtime.FuncObject); ok {
			found = true
			require.Equal(t, "add", fn.Name)
		}
	}
	require.True(t, found)
}

func TestCompileTupleEmitsMakeTuple(t *testing.T) {
	chunk := compileSrc(t, "(1, 2, 3)")
	var mt bytecode.MakeTuple
	var found bool
	for _, inst := range chunk {
		if m, ok := inst.(bytecode.MakeTuple); ok {
			mt = m
			found = true
		}
	}
	require.True(t, found)
	require.Equal(t, 3, mt.N)
}
