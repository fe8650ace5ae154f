package palindrome

import (
	"github.com/gonum/blas/blas64"
)

// store holds the weights and gradients of a model in two flat slices, so
// that optimizers and gradient clipping can treat the whole model as a
// single vector. Matrix and bias views carved out of a store alias the flat
// slices.
type store struct {
	weights []float64
	grads   []float64
	off     int
}

func newStore(n int) *store {
	return &store{
		weights: make([]float64, n),
		grads:   make([]float64, n),
	}
}

// general carves out an r by c matrix view of the weights and gradients.
func (s *store) general(r, c int) (w, g blas64.General) {
	n := r * c
	w = blas64.General{Rows: r, Cols: c, Stride: c, Data: s.weights[s.off : s.off+n]}
	g = blas64.General{Rows: r, Cols: c, Stride: c, Data: s.grads[s.off : s.off+n]}
	s.off += n
	return w, g
}

// bias carves out a length n vector view of the weights and gradients.
func (s *store) bias(n int) (w, g []float64) {
	w = s.weights[s.off : s.off+n]
	g = s.grads[s.off : s.off+n]
	s.off += n
	return w, g
}

func (s *store) clearGradients() {
	for i := range s.grads {
		s.grads[i] = 0
	}
}

func zeros(r, c int) blas64.General {
	return blas64.General{Rows: r, Cols: c, Stride: c, Data: make([]float64, r*c)}
}

// timestep gathers column t of a batch of flattened sequences into a
// batch by inputDim matrix.
func timestep(x [][]float64, t, inputDim int) blas64.General {
	m := zeros(len(x), inputDim)
	for b := range x {
		copy(m.Data[b*inputDim:(b+1)*inputDim], x[b][t*inputDim:(t+1)*inputDim])
	}
	return m
}

// fromRows packs a batch of equally sized rows into a matrix.
func fromRows(rows [][]float64) blas64.General {
	m := zeros(len(rows), len(rows[0]))
	for b := range rows {
		copy(m.Data[b*m.Cols:(b+1)*m.Cols], rows[b])
	}
	return m
}

// addBias adds b to every row of m.
func addBias(m blas64.General, b []float64) {
	for r := 0; r < m.Rows; r++ {
		row := m.Data[r*m.Stride : r*m.Stride+m.Cols]
		for j := range row {
			row[j] += b[j]
		}
	}
}

// sumRows accumulates the column sums of m into dst.
func sumRows(m blas64.General, dst []float64) {
	for r := 0; r < m.Rows; r++ {
		row := m.Data[r*m.Stride : r*m.Stride+m.Cols]
		for j := range row {
			dst[j] += row[j]
		}
	}
}
