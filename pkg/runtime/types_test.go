package runtime

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func intOf(v int64) *IntObject { return NewInt(big.NewInt(v)) }

func TestIntAddProducesIntOrFloat(t *testing.T) {
	sum, err := intOf(1).Add(intOf(2))
	require.NoError(t, err)
	require.Equal(t, "3", sum.Display())

	mixed, err := intOf(1).Add(NewFloat(0.5))
	require.NoError(t, err)
	require.IsType(t, &FloatObject{}, mixed)
	require.Equal(t, 1.5, mixed.(*FloatObject).Value)
}

func TestIntDivAlwaysProducesFloat(t *testing.T) {
	result, err := intOf(7).Div(intOf(2))
	require.NoError(t, err)
	require.IsType(t, &FloatObject{}, result)
	require.Equal(t, 3.5, result.(*FloatObject).Value)
}

func TestIntFloorDivByZeroIsZeroDivision(t *testing.T) {
	_, err := intOf(1).FloorDiv(intOf(0))
	require.Error(t, err)
	rerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, ZeroDivision, rerr.Kind)
}

func TestIntModByZeroIsZeroDivision(t *testing.T) {
	_, err := intOf(1).Mod(intOf(0))
	require.Error(t, err)
	rerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, ZeroDivision, rerr.Kind)
}

func TestIntPowNegativeExponentProducesFloat(t *testing.T) {
	result, err := intOf(2).Pow(intOf(-1))
	require.NoError(t, err)
	require.IsType(t, &FloatObject{}, result)
	require.Equal(t, 0.5, result.(*FloatObject).Value)
}

func TestIntComparisonAcrossIntAndFloat(t *testing.T) {
	lt, err := intOf(1).LessThan(NewFloat(1.5))
	require.NoError(t, err)
	require.True(t, lt)
}

func TestIntEqualityAcrossIntAndFloat(t *testing.T) {
	require.True(t, intOf(2).IsEqual(NewFloat(2.0)))
	require.False(t, intOf(2).IsEqual(NewString("2")))
}

func TestArithmeticTypeErrorForUnsupportedOperand(t *testing.T) {
	_, err := intOf(1).Add(NewString("x"))
	require.Error(t, err)
	rerr, ok := err.(*Err)
	require.True(t, ok)
	require.Equal(t, TypeErr, rerr.Kind)
}

func TestStringConcatenation(t *testing.T) {
	result, err := NewString("foo").Add(NewString("bar"))
	require.NoError(t, err)
	require.Equal(t, "foobar", result.(*StringObject).Value)
}

func TestStringIndexingSupportsNegativeIndex(t *testing.T) {
	s := NewString("hello")
	ch, err := s.GetItem(intOf(0))
	require.NoError(t, err)
	require.Equal(t, "h", ch.(*StringObject).Value)

	last, err := s.GetItem(intOf(-1))
	require.NoError(t, err)
	require.Equal(t, "o", last.(*StringObject).Value)
}

func TestStringIndexOutOfRangeErrors(t *testing.T) {
	_, err := NewString("hi").GetItem(intOf(5))
	require.Error(t, err)
}

func TestTupleEqualityIsElementwise(t *testing.T) {
	a := NewTuple([]Object{intOf(1), intOf(2)})
	b := NewTuple([]Object{intOf(1), intOf(2)})
	c := NewTuple([]Object{intOf(1), intOf(3)})
	require.True(t, a.IsEqual(b))
	require.False(t, a.IsEqual(c))
	require.False(t, a.Is(b)) // Is is reference identity, not structural
}

func TestTupleLengthAttr(t *testing.T) {
	tup := NewTuple([]Object{intOf(1), intOf(2), intOf(3)})
	length, err := tup.GetAttr("length")
	require.NoError(t, err)
	require.Equal(t, int64(3), length.(*IntObject).Value.Int64())

	_, err = tup.GetAttr("nope")
	require.Error(t, err)
}

func TestNilAndBoolDisplayAndEquality(t *testing.T) {
	require.Equal(t, "nil", NewNil().Display())
	require.False(t, NewNil().AsBool())
	require.True(t, NewNil().IsEqual(NewNil()))

	require.True(t, NewBool(true).AsBool())
	require.Equal(t, "false", NewBool(false).Display())
}

func TestDefaultCapabilityIsTypeError(t *testing.T) {
	_, err := NewNil().Negate()
	require.Error(t, err)
	_, ok := NewNil().AsFunc()
	require.False(t, ok)
}
