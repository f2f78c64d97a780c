package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ember/pkg/ast"
	"ember/pkg/bytecode"
)

func TestFuncObjectDisplayNamedAndAnonymous(t *testing.T) {
	named := NewFunc("add", ast.Params{"a", "b"}, bytecode.Chunk{})
	require.Equal(t, "<func add>", named.Display())

	anon := NewFunc("", nil, bytecode.Chunk{})
	require.Equal(t, "<anonymous func>", anon.Display())
}

func TestFuncObjectAsFunc(t *testing.T) {
	fn := NewFunc("f", nil, bytecode.Chunk{})
	got, ok := fn.AsFunc()
	require.True(t, ok)
	require.Same(t, fn, got)

	_, ok = fn.AsBuiltinFunc()
	require.False(t, ok)
}

func TestBuiltinFuncObjectDisplayAndDispatch(t *testing.T) {
	bf := NewBuiltinFunc("type", ast1Param, builtinType)
	require.Equal(t, "<builtin type>", bf.Display())

	got, ok := bf.AsBuiltinFunc()
	require.True(t, ok)
	require.Same(t, bf, got)
}

func TestFuncIdentityEquality(t *testing.T) {
	a := NewFunc("f", nil, bytecode.Chunk{})
	b := NewFunc("f", nil, bytecode.Chunk{})
	require.True(t, a.IsEqual(a))
	require.False(t, a.IsEqual(b))
}
