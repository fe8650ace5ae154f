package training

import (
	"testing"

	"github.com/emsalinha/palindrome"
)

func validConfig() Config {
	return Config{
		Model:        "rnn",
		InputLength:  3,
		InputDim:     1,
		NumClasses:   10,
		NumHidden:    16,
		BatchSize:    8,
		LearningRate: 0.001,
		TrainSteps:   10,
		MaxNorm:      10,
		PrintEvery:   5,
		Optimizer:    "rmsprop",
		Seed:         1,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	bad := []func(*Config){
		func(c *Config) { c.Model = "gru" },
		func(c *Config) { c.InputLength = 0 },
		func(c *Config) { c.InputDim = 2 },
		func(c *Config) { c.NumClasses = 2 },
		func(c *Config) { c.NumHidden = 0 },
		func(c *Config) { c.BatchSize = -1 },
		func(c *Config) { c.LearningRate = 0 },
		func(c *Config) { c.TrainSteps = 0 },
		func(c *Config) { c.MaxNorm = 0 },
		func(c *Config) { c.PrintEvery = 0 },
		func(c *Config) { c.Optimizer = "adam" },
	}
	for i, mutate := range bad {
		cfg := validConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("mutation %d not rejected", i)
		}
	}
}

func TestNew(t *testing.T) {
	for _, model := range []string{"rnn", "LSTM", "rrn"} {
		cfg := validConfig()
		cfg.Model = model
		net, err := New(cfg)
		if err != nil {
			t.Fatalf("%s: %v", model, err)
		}
		if net.NumWeights() == 0 {
			t.Fatalf("%s: no weights", model)
		}
		var nonzero bool
		for _, w := range net.WeightsVal() {
			if w != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			t.Fatalf("%s: weights not initialized", model)
		}
	}
}

func TestNewUnknownModel(t *testing.T) {
	cfg := validConfig()
	cfg.Model = "transformer"
	if _, err := New(cfg); err == nil {
		t.Fatal("unknown model accepted")
	}
}

func TestRun(t *testing.T) {
	cfg := validConfig()
	cfg.TrainSteps = 20
	net, err := New(cfg)
	if err != nil {
		t.Fatalf("%v", err)
	}
	var calls int
	stats, err := Run(cfg, net, func(step int, net palindrome.Network, acc []float64) {
		calls++
		if len(acc) != step+1 {
			t.Fatalf("step %d: %d accuracies recorded", step, len(acc))
		}
	})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if stats.NumSteps != len(stats.Acc) || stats.NumSteps > cfg.TrainSteps+1 {
		t.Fatalf("inconsistent step counts: %d steps, %d accuracies", stats.NumSteps, len(stats.Acc))
	}
	if calls != stats.NumSteps {
		t.Fatalf("monitor called %d times for %d steps", calls, stats.NumSteps)
	}
	for i, a := range stats.Acc {
		if a < 0 || a > 1 {
			t.Fatalf("accuracy %d out of range: %f", i, a)
		}
	}
	if stats.BestAcc < stats.LastAcc {
		t.Fatalf("best accuracy %f below last accuracy %f", stats.BestAcc, stats.LastAcc)
	}
	if stats.Acc[stats.BestStep] != stats.BestAcc {
		t.Fatalf("best step %d does not hold best accuracy", stats.BestStep)
	}
}

func TestShouldStop(t *testing.T) {
	tests := []struct {
		acc  []float64
		want bool
	}{
		{[]float64{}, false},
		{[]float64{1, 1, 1, 1}, false},
		{[]float64{1, 1, 1, 1, 1}, true},
		{[]float64{0.3, 0.5, 1, 1, 1, 1, 1}, true},
		{[]float64{0.9, 1, 1, 1, 1}, false},
		{[]float64{1, 1, 1, 1, 0.99}, false},
	}
	for i, tt := range tests {
		if got := shouldStop(tt.acc); got != tt.want {
			t.Fatalf("%d: shouldStop(%v) = %v, want %v", i, tt.acc, got, tt.want)
		}
	}
}

func TestRunLearnsShortSequences(t *testing.T) {
	if testing.Short() {
		t.Skip("training run")
	}
	cfg := validConfig()
	cfg.Model = "rrn"
	cfg.InputLength = 2
	cfg.NumHidden = 32
	cfg.BatchSize = 32
	cfg.LearningRate = 0.01
	cfg.TrainSteps = 400
	cfg.PrintEvery = 200
	net, err := New(cfg)
	if err != nil {
		t.Fatalf("%v", err)
	}
	stats, err := Run(cfg, net, nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	// Random guessing sits at 0.1.
	if stats.BestAcc < 0.2 {
		t.Fatalf("no learning on length-2 palindromes: best acc %f", stats.BestAcc)
	}
}
