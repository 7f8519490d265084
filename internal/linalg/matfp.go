// Package linalg implements the small amount of dense linear algebra over
// F_p needed by the saturation sieve: rank tracking of a growing row matrix
// and right-kernel bases.
package linalg

import "fmt"

// Matrix is a dense matrix over F_p with a fixed number of columns and a
// growing list of rows.
type Matrix struct {
	p    uint64
	cols int
	rows [][]uint64
}

// NewMatrix returns an empty matrix over F_p. p must be a prime below 2^31
// so that products of residues fit in a uint64.
func NewMatrix(p uint64, cols int) *Matrix {
	if p >= 1<<31 {
		panic(fmt.Sprintf("linalg: modulus %d out of range", p))
	}
	return &Matrix{p: p, cols: cols}
}

func (m *Matrix) Rows() int { return len(m.rows) }
func (m *Matrix) Cols() int { return m.cols }

// AppendRow adds a row. The entries are reduced mod p; the row length must
// equal the column count.
func (m *Matrix) AppendRow(v []uint64) {
	if len(v) != m.cols {
		panic(fmt.Sprintf("linalg: row length %d, want %d", len(v), m.cols))
	}
	row := make([]uint64, m.cols)
	for i, x := range v {
		row[i] = x % m.p
	}
	m.rows = append(m.rows, row)
}

func (m *Matrix) inv(x uint64) uint64 {
	// p is prime, x nonzero mod p.
	r := uint64(1)
	b := x % m.p
	e := m.p - 2
	for e > 0 {
		if e&1 == 1 {
			r = r * b % m.p
		}
		b = b * b % m.p
		e >>= 1
	}
	return r
}

// echelon returns a row echelon form copy and the pivot column of each
// echelon row.
func (m *Matrix) echelon() ([][]uint64, []int) {
	a := make([][]uint64, len(m.rows))
	for i, r := range m.rows {
		a[i] = append([]uint64(nil), r...)
	}
	var pivots []int
	row := 0
	for col := 0; col < m.cols && row < len(a); col++ {
		sel := -1
		for i := row; i < len(a); i++ {
			if a[i][col] != 0 {
				sel = i
				break
			}
		}
		if sel < 0 {
			continue
		}
		a[row], a[sel] = a[sel], a[row]
		inv := m.inv(a[row][col])
		for j := col; j < m.cols; j++ {
			a[row][j] = a[row][j] * inv % m.p
		}
		for i := 0; i < len(a); i++ {
			if i != row && a[i][col] != 0 {
				f := a[i][col]
				for j := col; j < m.cols; j++ {
					a[i][j] = (a[i][j] + (m.p-f)*a[row][j]) % m.p
				}
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return a, pivots
}

// Rank returns the rank of the matrix over F_p.
func (m *Matrix) Rank() int {
	_, pivots := m.echelon()
	return len(pivots)
}

// RightKernel returns a basis of the right null space {v : A·v = 0} over
// F_p in reduced row echelon form, together with the leading column of each
// basis vector. Basis vector i has entry 1 at its leading column (its first
// nonzero entry) and entry 0 at every other vector's leading column.
func (m *Matrix) RightKernel() ([][]uint64, []int) {
	a, pivots := m.echelon()
	isPivot := make([]bool, m.cols)
	for _, c := range pivots {
		isPivot[c] = true
	}
	var basis [][]uint64
	for free := 0; free < m.cols; free++ {
		if isPivot[free] {
			continue
		}
		v := make([]uint64, m.cols)
		v[free] = 1
		// Back-substitute: pivot row i has leading 1 at pivots[i].
		for i, pc := range pivots {
			// v[pc] = -a[i][free] (the free column's coefficient).
			if a[i][free] != 0 {
				v[pc] = m.p - a[i][free]
			}
		}
		basis = append(basis, v)
	}
	if len(basis) == 0 {
		return nil, nil
	}
	// Echelonize the basis itself: its leading columns become the earliest
	// columns supporting the kernel, so relations found among kernel
	// combinations map back to the earliest replaceable index.
	k := &Matrix{p: m.p, cols: m.cols, rows: basis}
	reduced, leads := k.echelon()
	return reduced[:len(leads)], leads
}
