package runtime

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstPoolReservesNilTrueFalse(t *testing.T) {
	pool := NewConstPool()
	require.Equal(t, "nil", pool.Get(0).Display())
	require.Equal(t, "true", pool.Get(1).Display())
	require.Equal(t, "false", pool.Get(2).Display())
	require.Equal(t, 3, pool.Len())
}

func TestConstPoolAddReturnsIndex(t *testing.T) {
	pool := NewConstPool()
	idx := pool.Add(NewInt(big.NewInt(7)))
	require.Equal(t, 3, idx)
	require.Equal(t, "7", pool.Get(idx).Display())
	require.Equal(t, 4, pool.Len())
}
