package palindrome

import (
	"math"

	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
)

// RRN is a residual recurrent network. Each step adds a tanh update to the
// previous hidden state,
//
//	h_t = h_{t-1} + tanh(Whx*x_t + Whh*h_{t-1} + bh)
//
// so gradients reach early timesteps through the identity path even when
// the tanh branch saturates. The class logits are a linear map of the final
// hidden state.
type RRN struct {
	inputDim   int
	hiddenSize int
	numClasses int

	store *store
	Whx   blas64.General
	dWhx  blas64.General
	Whh   blas64.General
	dWhh  blas64.General
	Bh    []float64
	dBh   []float64
	Wph   blas64.General
	dWph  blas64.General
	Bp    []float64
	dBp   []float64

	// forward pass caches
	x  [][]float64
	hs []blas64.General
	as []blas64.General // tanh branch outputs
}

func NewRRN(inputDim, hiddenSize, numClasses int) *RRN {
	r := &RRN{
		inputDim:   inputDim,
		hiddenSize: hiddenSize,
		numClasses: numClasses,
		store: newStore(hiddenSize*inputDim + hiddenSize*hiddenSize + hiddenSize +
			numClasses*hiddenSize + numClasses),
	}
	r.Whx, r.dWhx = r.store.general(hiddenSize, inputDim)
	r.Whh, r.dWhh = r.store.general(hiddenSize, hiddenSize)
	r.Bh, r.dBh = r.store.bias(hiddenSize)
	r.Wph, r.dWph = r.store.general(numClasses, hiddenSize)
	r.Bp, r.dBp = r.store.bias(numClasses)
	return r
}

func (r *RRN) Forward(x [][]float64) [][]float64 {
	batch := len(x)
	steps := len(x[0]) / r.inputDim
	r.x = x
	r.hs = make([]blas64.General, steps+1)
	r.as = make([]blas64.General, steps)
	r.hs[0] = zeros(batch, r.hiddenSize)
	for t := 0; t < steps; t++ {
		xt := timestep(x, t, r.inputDim)
		a := zeros(batch, r.hiddenSize)
		blas64.Gemm(blas.NoTrans, blas.Trans, 1, xt, r.Whx, 0, a)
		blas64.Gemm(blas.NoTrans, blas.Trans, 1, r.hs[t], r.Whh, 1, a)
		addBias(a, r.Bh)
		h := zeros(batch, r.hiddenSize)
		for i := range a.Data {
			a.Data[i] = math.Tanh(a.Data[i])
			h.Data[i] = r.hs[t].Data[i] + a.Data[i]
		}
		r.as[t] = a
		r.hs[t+1] = h
	}

	out := zeros(batch, r.numClasses)
	blas64.Gemm(blas.NoTrans, blas.Trans, 1, r.hs[steps], r.Wph, 0, out)
	addBias(out, r.Bp)
	logits := make([][]float64, batch)
	for b := range logits {
		logits[b] = out.Data[b*r.numClasses : (b+1)*r.numClasses]
	}
	return logits
}

func (r *RRN) Backward(grad [][]float64) {
	batch := len(grad)
	steps := len(r.hs) - 1
	dlogits := fromRows(grad)

	blas64.Gemm(blas.Trans, blas.NoTrans, 1, dlogits, r.hs[steps], 1, r.dWph)
	sumRows(dlogits, r.dBp)
	dh := zeros(batch, r.hiddenSize)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dlogits, r.Wph, 0, dh)

	for t := steps; t >= 1; t-- {
		a := r.as[t-1]
		da := zeros(batch, r.hiddenSize)
		for i := range da.Data {
			da.Data[i] = dh.Data[i] * (1 - a.Data[i]*a.Data[i])
		}
		xt := timestep(r.x, t-1, r.inputDim)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, da, xt, 1, r.dWhx)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, da, r.hs[t-1], 1, r.dWhh)
		sumRows(da, r.dBh)
		// dh flows both through the identity path and the tanh branch.
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, da, r.Whh, 1, dh)
	}
}

func (r *RRN) WeightsVal() []float64 {
	return r.store.weights
}

func (r *RRN) GradientsVal() []float64 {
	return r.store.grads
}

func (r *RRN) ClearGradients() {
	r.store.clearGradients()
}

func (r *RRN) NumWeights() int {
	return len(r.store.weights)
}
