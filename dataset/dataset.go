// Package dataset generates synthetic palindromic digit sequences.
package dataset

import (
	"math/rand"
)

// GenSeq draws one palindrome of length+1 digits and splits it into an
// input and a label: the input is everything but the final digit, and the
// label is the final digit. Since the sequence is a palindrome, the label
// always equals the first digit, so predicting it requires carrying the
// first input across the whole sequence.
func GenSeq(length int) ([]float64, int) {
	total := length + 1
	half := (total + 1) / 2
	seq := make([]float64, total)
	for i := 0; i < half; i++ {
		seq[i] = float64(rand.Intn(10))
	}
	for i := half; i < total; i++ {
		seq[i] = seq[total-1-i]
	}
	return seq[:total-1], int(seq[total-1])
}

// GenBatch draws batchSize palindromic sequences of the given input length.
func GenBatch(batchSize, length int) ([][]float64, []int) {
	x := make([][]float64, batchSize)
	y := make([]int, batchSize)
	for b := range x {
		x[b], y[b] = GenSeq(length)
	}
	return x, y
}
