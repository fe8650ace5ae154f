package palindrome

import (
	"math/rand"
	"testing"
)

func TestLSTMGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	net := NewLSTM(1, 3, 5)
	randomizeWeights(rng, net)
	x, y := genCheckData(rng, 3, 5, 5)
	checkGradients(t, net, x, y)
}

func TestLSTMNumWeights(t *testing.T) {
	net := NewLSTM(1, 4, 10)
	// 4 gates of (4x1 + 4x4 + 4) plus the 10x4 output layer and its bias.
	want := 4*(4+16+4) + 40 + 10
	if net.NumWeights() != want {
		t.Fatalf("expected %d weights, got %d", want, net.NumWeights())
	}
}

func TestLSTMClearGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	net := NewLSTM(1, 3, 5)
	randomizeWeights(rng, net)
	x, y := genCheckData(rng, 2, 4, 5)
	m := &Multinomial{Y: y}
	net.Backward(m.Grad(net.Forward(x)))
	net.ClearGradients()
	for i, g := range net.GradientsVal() {
		if g != 0 {
			t.Fatalf("gradient %d not cleared: %g", i, g)
		}
	}
}
