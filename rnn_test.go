package palindrome

import (
	"math/rand"
	"testing"
)

func TestRNNGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	net := NewRNN(1, 4, 5)
	randomizeWeights(rng, net)
	x, y := genCheckData(rng, 3, 6, 5)
	checkGradients(t, net, x, y)
}

func TestRNNBatchOfOne(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	net := NewRNN(1, 4, 5)
	randomizeWeights(rng, net)
	x, y := genCheckData(rng, 1, 3, 5)
	logits := net.Forward(x)
	if len(logits) != 1 || len(logits[0]) != 5 {
		t.Fatalf("expected 1x5 logits, got %dx%d", len(logits), len(logits[0]))
	}
	checkGradients(t, net, x, y)
}

func TestRNNVariableSequenceLength(t *testing.T) {
	// The same weights must handle sequences of any length.
	rng := rand.New(rand.NewSource(7))
	net := NewRNN(1, 4, 5)
	randomizeWeights(rng, net)
	for _, steps := range []int{1, 4, 9} {
		x, _ := genCheckData(rng, 2, steps, 5)
		logits := net.Forward(x)
		if len(logits) != 2 || len(logits[0]) != 5 {
			t.Fatalf("steps %d: expected 2x5 logits, got %dx%d", steps, len(logits), len(logits[0]))
		}
	}
}
