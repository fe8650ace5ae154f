package palindrome

import (
	"math"

	"github.com/gonum/floats"
)

// SGDMomentum updates weights along an exponentially decayed history of
// past updates.
type SGDMomentum struct {
	Net   Network
	PrevD []float64
}

func NewSGDMomentum(n Network) *SGDMomentum {
	s := SGDMomentum{
		Net:   n,
		PrevD: make([]float64, n.NumWeights()),
	}
	return &s
}

func (s *SGDMomentum) Update(alpha, mt float64) {
	w := s.Net.WeightsVal()
	g := s.Net.GradientsVal()
	for i := range w {
		d := -alpha*g[i] + mt*s.PrevD[i]
		w[i] += d
		s.PrevD[i] = d
	}
}

// RMSProp implements the rmsprop update of Graves (2013), tracking running
// moments N and G of the gradients and a momentum D of the updates.
type RMSProp struct {
	Net Network
	N   []float64
	G   []float64
	D   []float64
}

func NewRMSProp(n Network) *RMSProp {
	r := RMSProp{
		Net: n,
		N:   make([]float64, n.NumWeights()),
		G:   make([]float64, n.NumWeights()),
		D:   make([]float64, n.NumWeights()),
	}
	return &r
}

// Update performs one step with decay a, momentum b, learning rate c and
// damping d.
func (r *RMSProp) Update(a, b, c, d float64) {
	w := r.Net.WeightsVal()
	g := r.Net.GradientsVal()
	for i := range w {
		r.N[i] = a*r.N[i] + (1-a)*g[i]*g[i]
		r.G[i] = a*r.G[i] + (1-a)*g[i]
		r.D[i] = b*r.D[i] - c*g[i]/math.Sqrt(r.N[i]-r.G[i]*r.G[i]+d)
		w[i] += r.D[i]
	}
}

// ClipNorm rescales grads in place so that their 2-norm does not exceed max,
// and returns the norm before clipping.
func ClipNorm(grads []float64, max float64) float64 {
	norm := floats.Norm(grads, 2)
	if norm > max {
		floats.Scale(max/norm, grads)
	}
	return norm
}
