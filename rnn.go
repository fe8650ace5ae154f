package palindrome

import (
	"math"

	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
)

// RNN is a vanilla recurrent network. Each step computes
// h_t = tanh(Whx*x_t + Whh*h_{t-1} + bh), and the class logits are a linear
// map of the final hidden state.
type RNN struct {
	inputDim   int
	hiddenSize int
	numClasses int

	store *store
	Whx   blas64.General // hiddenSize x inputDim
	dWhx  blas64.General
	Whh   blas64.General // hiddenSize x hiddenSize
	dWhh  blas64.General
	Bh    []float64
	dBh   []float64
	Wph   blas64.General // numClasses x hiddenSize
	dWph  blas64.General
	Bp    []float64
	dBp   []float64

	// forward pass caches
	x  [][]float64
	hs []blas64.General
}

func NewRNN(inputDim, hiddenSize, numClasses int) *RNN {
	r := &RNN{
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

func (r *RNN) Forward(x [][]float64) [][]float64 {
	batch := len(x)
	steps := len(x[0]) / r.inputDim
	r.x = x
	r.hs = make([]blas64.General, steps+1)
	r.hs[0] = zeros(batch, r.hiddenSize)
	for t := 0; t < steps; t++ {
		xt := timestep(x, t, r.inputDim)
		h := zeros(batch, r.hiddenSize)
		blas64.Gemm(blas.NoTrans, blas.Trans, 1, xt, r.Whx, 0, h)
		blas64.Gemm(blas.NoTrans, blas.Trans, 1, r.hs[t], r.Whh, 1, h)
		addBias(h, r.Bh)
		for i := range h.Data {
			h.Data[i] = math.Tanh(h.Data[i])
		}
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

func (r *RNN) Backward(grad [][]float64) {
	batch := len(grad)
	steps := len(r.hs) - 1
	dlogits := fromRows(grad)

	blas64.Gemm(blas.Trans, blas.NoTrans, 1, dlogits, r.hs[steps], 1, r.dWph)
	sumRows(dlogits, r.dBp)
	dh := zeros(batch, r.hiddenSize)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dlogits, r.Wph, 0, dh)

	for t := steps; t >= 1; t-- {
		h := r.hs[t]
		dpre := zeros(batch, r.hiddenSize)
		for i := range dpre.Data {
			dpre.Data[i] = dh.Data[i] * (1 - h.Data[i]*h.Data[i])
		}
		xt := timestep(r.x, t-1, r.inputDim)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dpre, xt, 1, r.dWhx)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dpre, r.hs[t-1], 1, r.dWhh)
		sumRows(dpre, r.dBh)
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dpre, r.Whh, 0, dh)
	}
}

func (r *RNN) WeightsVal() []float64 {
	return r.store.weights
}

func (r *RNN) GradientsVal() []float64 {
	return r.store.grads
}

func (r *RNN) ClearGradients() {
	r.store.clearGradients()
}

func (r *RNN) NumWeights() int {
	return len(r.store.weights)
}
