package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	m := NewMatrix(3, 3)
	require.Equal(t, 0, m.Rank())

	m.AppendRow([]uint64{1, 2, 0})
	require.Equal(t, 1, m.Rank())

	// 2*(1,2,0) mod 3: no rank gain.
	m.AppendRow([]uint64{2, 1, 0})
	require.Equal(t, 1, m.Rank())

	m.AppendRow([]uint64{0, 0, 1})
	require.Equal(t, 2, m.Rank())

	m.AppendRow([]uint64{1, 0, 1})
	require.Equal(t, 3, m.Rank())
}

func TestRightKernel(t *testing.T) {
	p := uint64(5)
	m := NewMatrix(p, 4)
	m.AppendRow([]uint64{1, 0, 2, 3})
	m.AppendRow([]uint64{0, 1, 4, 1})

	basis, leads := m.RightKernel()
	require.Len(t, basis, 2)
	require.Equal(t, []int{0, 2}, leads)

	for j, v := range basis {
		// In the kernel.
		for _, row := range [][]uint64{{1, 0, 2, 3}, {0, 1, 4, 1}} {
			dot := uint64(0)
			for i := range row {
				dot = (dot + row[i]*v[i]) % p
			}
			require.Zero(t, dot)
		}
		// Echelonized: the leading entry is the first nonzero one, equals 1,
		// and vanishes in every other basis vector.
		for i := 0; i < leads[j]; i++ {
			require.Zero(t, v[i])
		}
		require.Equal(t, uint64(1), v[leads[j]])
		for jj, other := range basis {
			if jj != j {
				require.Zero(t, other[leads[j]])
			}
		}
	}
}

func TestRightKernelFullRank(t *testing.T) {
	m := NewMatrix(2, 2)
	m.AppendRow([]uint64{1, 0})
	m.AppendRow([]uint64{0, 1})
	basis, _ := m.RightKernel()
	require.Empty(t, basis)
}
