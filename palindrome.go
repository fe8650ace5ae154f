// Package palindrome implements small recurrent sequence models for
// classifying palindromic digit sequences, along with the loss, gradient
// clipping and optimizers needed to train them by backpropagation through
// time.
package palindrome

import (
	"math"

	"github.com/gonum/floats"
)

// Network is a recurrent model mapping a batch of flattened input sequences
// to class logits. Inputs are row-major: x[b] holds seqLen*inputDim values
// for sequence b, so the sequence length is inferred per batch.
type Network interface {
	// Forward runs the model on a batch and returns one row of class
	// logits per sequence. The returned rows stay valid until the next
	// Forward call.
	Forward(x [][]float64) [][]float64
	// Backward accumulates weight gradients,
	// assuming the gradients on the logits of the last Forward are given.
	Backward(grad [][]float64)

	// WeightsVal returns the flat backing slice of all weights.
	// Callers may copy into it to load trained weights.
	WeightsVal() []float64
	// GradientsVal returns the flat backing slice of all gradients.
	GradientsVal() []float64

	// ClearGradients sets all gradients to zero.
	ClearGradients()

	NumWeights() int
}

// Multinomial models class labels as draws from a softmax over the logits.
type Multinomial struct {
	Y []int
}

// Loss returns the cross entropy averaged over the batch. The log
// probability is computed from the shifted logits rather than by taking
// the log of the softmax, so it stays finite for any logit gap.
func (m *Multinomial) Loss(logits [][]float64) float64 {
	var l float64
	for b, row := range logits {
		max := floats.Max(row)
		var sum float64
		for _, v := range row {
			sum += math.Exp(v - max)
		}
		l -= row[m.Y[b]] - max - math.Log(sum)
	}
	return l / float64(len(logits))
}

// Grad returns the gradient of Loss with respect to the logits,
// which is (softmax - onehot) scaled by the batch size.
func (m *Multinomial) Grad(logits [][]float64) [][]float64 {
	grad := MakeTensor2(len(logits), len(logits[0]))
	for b, row := range logits {
		Softmax(grad[b], row)
		grad[b][m.Y[b]] -= 1
		floats.Scale(1/float64(len(logits)), grad[b])
	}
	return grad
}

// Accuracy returns the fraction of rows whose largest logit is the label.
func Accuracy(logits [][]float64, y []int) float64 {
	var correct float64
	for b, row := range logits {
		if floats.MaxIdx(row) == y[b] {
			correct++
		}
	}
	return correct / float64(len(logits))
}
