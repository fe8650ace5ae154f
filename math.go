package palindrome

import (
	"math"

	"github.com/gonum/floats"
)

func Sigmoid(x float64) float64 {
	return 1.0 / (1 + math.Exp(-x))
}

// Softmax writes the softmax of v into dst. The maximum of v is subtracted
// before exponentiating so that large logits do not overflow.
func Softmax(dst, v []float64) {
	max := floats.Max(v)
	for i := range dst {
		dst[i] = math.Exp(v[i] - max)
	}
	floats.Scale(1/floats.Sum(dst), dst)
}

func MakeTensor2(n, m int) [][]float64 {
	t := make([][]float64, n)
	for i := 0; i < len(t); i++ {
		t[i] = make([]float64, m)
	}
	return t
}
