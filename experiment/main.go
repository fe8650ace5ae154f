package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"gorgonia.org/tensor"

	"github.com/emsalinha/palindrome/training"
)

var (
	modelType    = flag.String("model_type", "rrn", "model type: rnn, lstm or rrn")
	start        = flag.Int("start", 50, "first input length of the sweep")
	end          = flag.Int("end", 500, "last input length of the sweep")
	stepBy       = flag.Int("step", 50, "input length increment")
	numHidden    = flag.Int("num_hidden", 128, "number of hidden units in the model")
	batchSize    = flag.Int("batch_size", 128, "number of examples to process in a batch")
	learningRate = flag.Float64("learning_rate", 0.001, "learning rate")
	trainSteps   = flag.Int("train_steps", 10000, "number of training steps per length")
	maxNorm      = flag.Float64("max_norm", 10.0, "global gradient norm clip")
	printEvery   = flag.Int("print_every", 100, "how often to print preliminary results")
	optimizer    = flag.String("optimizer", "rmsprop", "optimizer: rmsprop or sgd")
	seed         = flag.Int64("seed", 8, "random seed")
)

// run pairs the stats of one sweep entry with the config that produced it.
type run struct {
	training.Config
	*training.Stats
}

func main() {
	flag.Parse()
	rand.Seed(*seed)
	log.Printf("seed: %d", *seed)

	runs := make([]run, 0)
	for length := *start; length <= *end; length += *stepBy {
		cfg := training.Config{
			Model:        *modelType,
			InputLength:  length,
			InputDim:     1,
			NumClasses:   10,
			NumHidden:    *numHidden,
			BatchSize:    *batchSize,
			LearningRate: *learningRate,
			TrainSteps:   *trainSteps,
			MaxNorm:      *maxNorm,
			PrintEvery:   *printEvery,
			Optimizer:    *optimizer,
			Seed:         *seed,
		}
		log.Printf("sweep: model %s, input length %d", cfg.Model, length)

		net, err := training.New(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		stats, err := training.Run(cfg, net, nil)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("input length %d: best acc %.2f at step %d, last acc %.2f",
			length, stats.BestAcc, stats.BestStep, stats.LastAcc)

		runs = append(runs, run{cfg, stats})
		saveNpy(fmt.Sprintf("train_acc_%s%d.npy", cfg.Model, length), stats.Acc)
		// Save after every completed length so an aborted sweep keeps its results.
		saveStats(fmt.Sprintf("experiment_stats_%s%d.json", cfg.Model, *end), runs)
	}
}

func saveStats(name string, runs []run) {
	f, err := os.Create(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(runs); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("saved experiment stats to %s", name)
}

func saveNpy(name string, vals []float64) {
	t := tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
	f, err := os.Create(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()
	if err := t.WriteNpy(f); err != nil {
		log.Fatalf("%v", err)
	}
}
