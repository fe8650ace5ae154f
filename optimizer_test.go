package palindrome

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

// stubNet is a minimal Network for exercising the optimizers.
type stubNet struct {
	w []float64
	g []float64
}

func (s *stubNet) Forward(x [][]float64) [][]float64 { return nil }
func (s *stubNet) Backward(grad [][]float64)         {}
func (s *stubNet) WeightsVal() []float64             { return s.w }
func (s *stubNet) GradientsVal() []float64           { return s.g }
func (s *stubNet) NumWeights() int                   { return len(s.w) }
func (s *stubNet) ClearGradients() {
	for i := range s.g {
		s.g[i] = 0
	}
}

func TestClipNorm(t *testing.T) {
	g := []float64{3, 4}
	if norm := ClipNorm(g, 1); math.Abs(norm-5) > 1e-12 {
		t.Fatalf("expected pre-clip norm 5, got %f", norm)
	}
	if math.Abs(g[0]-0.6) > 1e-12 || math.Abs(g[1]-0.8) > 1e-12 {
		t.Fatalf("expected clipped gradients [0.6 0.8], got %v", g)
	}
	if math.Abs(floats.Norm(g, 2)-1) > 1e-12 {
		t.Fatalf("clipped norm is %f, expected 1", floats.Norm(g, 2))
	}
}

func TestClipNormBelowMax(t *testing.T) {
	g := []float64{0.3, -0.4}
	ClipNorm(g, 10)
	if g[0] != 0.3 || g[1] != -0.4 {
		t.Fatalf("gradients below max were rescaled: %v", g)
	}
}

func TestSGDMomentumDescends(t *testing.T) {
	// Minimize 0.5*w^2 whose gradient is w.
	net := &stubNet{w: []float64{2}, g: []float64{0}}
	sgd := NewSGDMomentum(net)
	for i := 0; i < 100; i++ {
		net.g[0] = net.w[0]
		sgd.Update(0.1, 0.5)
	}
	if math.Abs(net.w[0]) > 0.01 {
		t.Fatalf("sgd with momentum did not converge, w = %f", net.w[0])
	}
}

func TestRMSPropDescends(t *testing.T) {
	net := &stubNet{w: []float64{2}, g: []float64{0}}
	rmsp := NewRMSProp(net)
	for i := 0; i < 500; i++ {
		net.g[0] = net.w[0]
		rmsp.Update(0.95, 0.5, 1e-2, 1e-3)
	}
	if math.Abs(net.w[0]) > 0.1 {
		t.Fatalf("rmsprop did not converge, w = %f", net.w[0])
	}
}

func TestRMSPropOpposesGradient(t *testing.T) {
	net := &stubNet{w: []float64{0}, g: []float64{1}}
	rmsp := NewRMSProp(net)
	rmsp.Update(0.95, 0.5, 1e-3, 1e-3)
	if net.w[0] >= 0 {
		t.Fatalf("positive gradient should decrease the weight, got %f", net.w[0])
	}
}
