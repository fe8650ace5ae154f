package palindrome

import (
	"math"

	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
)

// LSTM is a long-short-term-memory network. Each step computes the input,
// forget and output gates and a candidate cell value
//
//	i_t = sigmoid(Wix*x_t + Wih*h_{t-1} + bi)
//	f_t = sigmoid(Wfx*x_t + Wfh*h_{t-1} + bf)
//	g_t = tanh(Wgx*x_t + Wgh*h_{t-1} + bg)
//	o_t = sigmoid(Wox*x_t + Woh*h_{t-1} + bo)
//
// and updates the cell and hidden states
//
//	c_t = f_t*c_{t-1} + i_t*g_t
//	h_t = o_t*tanh(c_t)
//
// The class logits are a linear map of the final hidden state.
type LSTM struct {
	inputDim   int
	hiddenSize int
	numClasses int

	store                *store
	Wix, dWix, Wih, dWih blas64.General
	Bi, dBi              []float64
	Wfx, dWfx, Wfh, dWfh blas64.General
	Bf, dBf              []float64
	Wgx, dWgx, Wgh, dWgh blas64.General
	Bg, dBg              []float64
	Wox, dWox, Woh, dWoh blas64.General
	Bo, dBo              []float64
	Wph, dWph            blas64.General
	Bp, dBp              []float64

	// forward pass caches
	x              [][]float64
	hs, cs         []blas64.General
	ig, fg, gg, og []blas64.General
	tc             []blas64.General
}

func NewLSTM(inputDim, hiddenSize, numClasses int) *LSTM {
	gate := hiddenSize*inputDim + hiddenSize*hiddenSize + hiddenSize
	l := &LSTM{
		inputDim:   inputDim,
		hiddenSize: hiddenSize,
		numClasses: numClasses,
		store:      newStore(4*gate + numClasses*hiddenSize + numClasses),
	}
	l.Wix, l.dWix = l.store.general(hiddenSize, inputDim)
	l.Wih, l.dWih = l.store.general(hiddenSize, hiddenSize)
	l.Bi, l.dBi = l.store.bias(hiddenSize)
	l.Wfx, l.dWfx = l.store.general(hiddenSize, inputDim)
	l.Wfh, l.dWfh = l.store.general(hiddenSize, hiddenSize)
	l.Bf, l.dBf = l.store.bias(hiddenSize)
	l.Wgx, l.dWgx = l.store.general(hiddenSize, inputDim)
	l.Wgh, l.dWgh = l.store.general(hiddenSize, hiddenSize)
	l.Bg, l.dBg = l.store.bias(hiddenSize)
	l.Wox, l.dWox = l.store.general(hiddenSize, inputDim)
	l.Woh, l.dWoh = l.store.general(hiddenSize, hiddenSize)
	l.Bo, l.dBo = l.store.bias(hiddenSize)
	l.Wph, l.dWph = l.store.general(numClasses, hiddenSize)
	l.Bp, l.dBp = l.store.bias(numClasses)
	return l
}

// gate computes act(wx*x_t + wh*h_{t-1} + b) for one gate.
func (l *LSTM) gate(xt, hprev blas64.General, wx, wh blas64.General, b []float64, act func(float64) float64) blas64.General {
	a := zeros(xt.Rows, l.hiddenSize)
	blas64.Gemm(blas.NoTrans, blas.Trans, 1, xt, wx, 0, a)
	blas64.Gemm(blas.NoTrans, blas.Trans, 1, hprev, wh, 1, a)
	addBias(a, b)
	for i := range a.Data {
		a.Data[i] = act(a.Data[i])
	}
	return a
}

func (l *LSTM) Forward(x [][]float64) [][]float64 {
	batch := len(x)
	steps := len(x[0]) / l.inputDim
	l.x = x
	l.hs = make([]blas64.General, steps+1)
	l.cs = make([]blas64.General, steps+1)
	l.ig = make([]blas64.General, steps)
	l.fg = make([]blas64.General, steps)
	l.gg = make([]blas64.General, steps)
	l.og = make([]blas64.General, steps)
	l.tc = make([]blas64.General, steps)
	l.hs[0] = zeros(batch, l.hiddenSize)
	l.cs[0] = zeros(batch, l.hiddenSize)

	for t := 0; t < steps; t++ {
		xt := timestep(x, t, l.inputDim)
		hprev := l.hs[t]
		i := l.gate(xt, hprev, l.Wix, l.Wih, l.Bi, Sigmoid)
		f := l.gate(xt, hprev, l.Wfx, l.Wfh, l.Bf, Sigmoid)
		g := l.gate(xt, hprev, l.Wgx, l.Wgh, l.Bg, math.Tanh)
		o := l.gate(xt, hprev, l.Wox, l.Woh, l.Bo, Sigmoid)

		c := zeros(batch, l.hiddenSize)
		tc := zeros(batch, l.hiddenSize)
		h := zeros(batch, l.hiddenSize)
		for k := range c.Data {
			c.Data[k] = f.Data[k]*l.cs[t].Data[k] + i.Data[k]*g.Data[k]
			tc.Data[k] = math.Tanh(c.Data[k])
			h.Data[k] = o.Data[k] * tc.Data[k]
		}
		l.ig[t], l.fg[t], l.gg[t], l.og[t] = i, f, g, o
		l.cs[t+1] = c
		l.tc[t] = tc
		l.hs[t+1] = h
	}

	out := zeros(batch, l.numClasses)
	blas64.Gemm(blas.NoTrans, blas.Trans, 1, l.hs[steps], l.Wph, 0, out)
	addBias(out, l.Bp)
	logits := make([][]float64, batch)
	for b := range logits {
		logits[b] = out.Data[b*l.numClasses : (b+1)*l.numClasses]
	}
	return logits
}

func (l *LSTM) Backward(grad [][]float64) {
	batch := len(grad)
	steps := len(l.hs) - 1
	dlogits := fromRows(grad)

	blas64.Gemm(blas.Trans, blas.NoTrans, 1, dlogits, l.hs[steps], 1, l.dWph)
	sumRows(dlogits, l.dBp)
	dh := zeros(batch, l.hiddenSize)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dlogits, l.Wph, 0, dh)
	dc := zeros(batch, l.hiddenSize)

	for t := steps; t >= 1; t-- {
		i, f, g, o := l.ig[t-1], l.fg[t-1], l.gg[t-1], l.og[t-1]
		tc := l.tc[t-1]
		cprev := l.cs[t-1]
		hprev := l.hs[t-1]

		dai := zeros(batch, l.hiddenSize)
		daf := zeros(batch, l.hiddenSize)
		dag := zeros(batch, l.hiddenSize)
		dao := zeros(batch, l.hiddenSize)
		for k := range dh.Data {
			dc.Data[k] += dh.Data[k] * o.Data[k] * (1 - tc.Data[k]*tc.Data[k])
			dao.Data[k] = dh.Data[k] * tc.Data[k] * o.Data[k] * (1 - o.Data[k])
			dai.Data[k] = dc.Data[k] * g.Data[k] * i.Data[k] * (1 - i.Data[k])
			daf.Data[k] = dc.Data[k] * cprev.Data[k] * f.Data[k] * (1 - f.Data[k])
			dag.Data[k] = dc.Data[k] * i.Data[k] * (1 - g.Data[k]*g.Data[k])
		}

		xt := timestep(l.x, t-1, l.inputDim)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dai, xt, 1, l.dWix)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dai, hprev, 1, l.dWih)
		sumRows(dai, l.dBi)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, daf, xt, 1, l.dWfx)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, daf, hprev, 1, l.dWfh)
		sumRows(daf, l.dBf)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dag, xt, 1, l.dWgx)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dag, hprev, 1, l.dWgh)
		sumRows(dag, l.dBg)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dao, xt, 1, l.dWox)
		blas64.Gemm(blas.Trans, blas.NoTrans, 1, dao, hprev, 1, l.dWoh)
		sumRows(dao, l.dBo)

		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dai, l.Wih, 0, dh)
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, daf, l.Wfh, 1, dh)
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dag, l.Wgh, 1, dh)
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, dao, l.Woh, 1, dh)
		for k := range dc.Data {
			dc.Data[k] *= f.Data[k]
		}
	}
}

func (l *LSTM) WeightsVal() []float64 {
	return l.store.weights
}

func (l *LSTM) GradientsVal() []float64 {
	return l.store.grads
}

func (l *LSTM) ClearGradients() {
	l.store.clearGradients()
}

func (l *LSTM) NumWeights() int {
	return len(l.store.weights)
}
