// Package training drives the optimization of recurrent palindrome
// classifiers over the synthetic dataset.
package training

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/gonum/floats"

	"github.com/emsalinha/palindrome"
	"github.com/emsalinha/palindrome/dataset"
)

// Config holds all training settings. Every field is required.
type Config struct {
	Model        string // "rnn", "lstm" or "rrn"
	InputLength  int    // digits fed to the model per sequence
	InputDim     int    // dimensionality of one timestep
	NumClasses   int
	NumHidden    int
	BatchSize    int
	LearningRate float64
	TrainSteps   int
	MaxNorm      float64 // global gradient norm clip
	PrintEvery   int
	Optimizer    string // "rmsprop" or "sgd"
	Seed         int64
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Model) {
	case "rnn", "lstm", "rrn":
	default:
		return fmt.Errorf("model must be rnn, lstm or rrn, got %q", c.Model)
	}
	if c.InputLength <= 0 {
		return fmt.Errorf("input length must be > 0, got %d", c.InputLength)
	}
	if c.InputDim != 1 {
		return fmt.Errorf("the palindrome dataset emits one digit per step, input dim must be 1, got %d", c.InputDim)
	}
	if c.NumClasses < 10 {
		return fmt.Errorf("labels are digits, num classes must be >= 10, got %d", c.NumClasses)
	}
	if c.NumHidden <= 0 {
		return fmt.Errorf("num hidden must be > 0, got %d", c.NumHidden)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be > 0, got %g", c.LearningRate)
	}
	if c.TrainSteps <= 0 {
		return fmt.Errorf("train steps must be > 0, got %d", c.TrainSteps)
	}
	if c.MaxNorm <= 0 {
		return fmt.Errorf("max norm must be > 0, got %g", c.MaxNorm)
	}
	if c.PrintEvery <= 0 {
		return fmt.Errorf("print every must be > 0, got %d", c.PrintEvery)
	}
	switch strings.ToLower(c.Optimizer) {
	case "rmsprop", "sgd":
	default:
		return fmt.Errorf("optimizer must be rmsprop or sgd, got %q", c.Optimizer)
	}
	return nil
}

// New builds the configured model and randomizes its weights uniformly in
// +-0.5/sqrt(hidden).
func New(cfg Config) (palindrome.Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var net palindrome.Network
	switch strings.ToLower(cfg.Model) {
	case "rnn":
		net = palindrome.NewRNN(cfg.InputDim, cfg.NumHidden, cfg.NumClasses)
	case "lstm":
		net = palindrome.NewLSTM(cfg.InputDim, cfg.NumHidden, cfg.NumClasses)
	case "rrn":
		net = palindrome.NewRRN(cfg.InputDim, cfg.NumHidden, cfg.NumClasses)
	}
	scale := 1 / math.Sqrt(float64(cfg.NumHidden))
	weights := net.WeightsVal()
	for i := range weights {
		weights[i] = scale * (rand.Float64() - 0.5)
	}
	return net, nil
}

// Monitor is called after every optimization step with the per-step
// accuracies recorded so far.
type Monitor func(step int, net palindrome.Network, acc []float64)

// Stats summarizes one training run.
type Stats struct {
	LastAcc  float64   `json:"last_acc"`
	BestAcc  float64   `json:"best_acc"`
	BestStep int       `json:"step_best_acc"`
	NumSteps int       `json:"num_steps"`
	Acc      []float64 `json:"accs"`
}

// shouldStop reports whether training has converged: the mean of the last
// five recorded accuracies equals 1.0. It never fires before five steps
// have been recorded.
func shouldStop(acc []float64) bool {
	if len(acc) < 5 {
		return false
	}
	return floats.Sum(acc[len(acc)-5:])/5 == 1.0
}

// Run trains net on freshly drawn palindrome batches until cfg.TrainSteps
// steps have been taken, or earlier once the model answers five consecutive
// batches perfectly. mon may be nil.
func Run(cfg Config, net palindrome.Network, mon Monitor) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var rmsp *palindrome.RMSProp
	var sgd *palindrome.SGDMomentum
	if strings.ToLower(cfg.Optimizer) == "rmsprop" {
		rmsp = palindrome.NewRMSProp(net)
	} else {
		sgd = palindrome.NewSGDMomentum(net)
	}

	acc := make([]float64, 0, cfg.TrainSteps+1)
	for step := 0; step <= cfg.TrainSteps; step++ {
		t1 := time.Now()
		x, y := dataset.GenBatch(cfg.BatchSize, cfg.InputLength)
		logits := net.Forward(x)
		model := &palindrome.Multinomial{Y: y}
		loss := model.Loss(logits)

		net.ClearGradients()
		net.Backward(model.Grad(logits))
		palindrome.ClipNorm(net.GradientsVal(), cfg.MaxNorm)
		if rmsp != nil {
			rmsp.Update(0.95, 0.5, cfg.LearningRate, 1e-3)
		} else {
			sgd.Update(cfg.LearningRate, 0.9)
		}

		acc = append(acc, palindrome.Accuracy(logits, y))
		if step%cfg.PrintEvery == 0 {
			perSec := float64(cfg.BatchSize) / (time.Since(t1).Seconds() + 1e-6)
			log.Printf("%d/%d, acc: %.2f, loss: %.3f, seq length: %d, examples/sec: %.0f",
				step, cfg.TrainSteps, acc[step], loss, cfg.InputLength, perSec)
			log.Printf("x: %v, pred: %d, true: %d", x[0], floats.MaxIdx(logits[0]), y[0])
		}
		if mon != nil {
			mon(step, net, acc)
		}
		if shouldStop(acc) {
			break
		}
	}
	log.Printf("done training")

	best := floats.MaxIdx(acc)
	return &Stats{
		LastAcc:  acc[len(acc)-1],
		BestAcc:  acc[best],
		BestStep: best,
		NumSteps: len(acc),
		Acc:      acc,
	}, nil
}
