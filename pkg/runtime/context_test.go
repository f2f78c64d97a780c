package runtime

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext() *RuntimeContext {
	return NewRuntimeContext(NewConstPool())
}

func TestNewRuntimeContextSeedsBuiltins(t *testing.T) {
	ctx := newTestContext()
	v, err := ctx.Load("print")
	require.NoError(t, err)
	_, ok := v.AsBuiltinFunc()
	require.True(t, ok)
}

func TestDeclareAssignLoadRoundTrip(t *testing.T) {
	ctx := newTestContext()
	ctx.Declare("x", NewInt(big.NewInt(1)))

	v, err := ctx.Load("x")
	require.NoError(t, err)
	require.Equal(t, "1", v.Display())

	require.NoError(t, ctx.Assign("x", NewInt(big.NewInt(2))))
	v, err = ctx.Load("x")
	require.NoError(t, err)
	require.Equal(t, "2", v.Display())
}

func TestAssignUndeclaredNameErrors(t *testing.T) {
	ctx := newTestContext()
	err := ctx.Assign("missing", NewNil())
	require.Error(t, err)
	rerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, NameErr, rerr.Kind)
}

func TestLoadUndeclaredNameErrors(t *testing.T) {
	ctx := newTestContext()
	_, err := ctx.Load("missing")
	require.Error(t, err)
}

func TestDeclareIfAbsentIsNoOpWhenAlreadyPresentInScope(t *testing.T) {
	ctx := newTestContext()
	ctx.Declare("i", NewInt(big.NewInt(0)))
	require.NoError(t, ctx.Assign("i", NewInt(big.NewInt(5))))

	ctx.DeclareIfAbsent("i", NewInt(big.NewInt(0)))

	v, err := ctx.Load("i")
	require.NoError(t, err)
	require.Equal(t, "5", v.Display(), "re-declaring in the same scope must not reset the value")
}

func TestDeclareIfAbsentStillDeclaresWhenAbsent(t *testing.T) {
	ctx := newTestContext()
	ctx.DeclareIfAbsent("fresh", NewInt(big.NewInt(7)))
	v, err := ctx.Load("fresh")
	require.NoError(t, err)
	require.Equal(t, "7", v.Display())
}

func TestDeclareIfAbsentShadowsOuterScopeFreshly(t *testing.T) {
	ctx := newTestContext()
	ctx.Declare("x", NewInt(big.NewInt(1)))
	ctx.PushNamespace()
	defer ctx.PopNamespace()

	// x is declared in the OUTER scope, not this (innermost) one, so
	// DeclareIfAbsent must still bind a fresh inner copy rather than
	// treating the outer binding as already present here.
	ctx.DeclareIfAbsent("x", NewInt(big.NewInt(99)))
	v, err := ctx.Load("x")
	require.NoError(t, err)
	require.Equal(t, "99", v.Display())
}

func TestPushPopNamespaceChangesDepth(t *testing.T) {
	ctx := newTestContext()
	before := ctx.Depth()
	ctx.PushNamespace()
	require.Equal(t, before+1, ctx.Depth())
	ctx.PopNamespace()
	require.Equal(t, before, ctx.Depth())
}

func TestAssignFindsOuterScopeBinding(t *testing.T) {
	ctx := newTestContext()
	ctx.Declare("x", NewInt(big.NewInt(1)))
	ctx.PushNamespace()
	defer ctx.PopNamespace()

	require.NoError(t, ctx.Assign("x", NewInt(big.NewInt(42))))
	v, err := ctx.Load("x")
	require.NoError(t, err)
	require.Equal(t, "42", v.Display())
}
