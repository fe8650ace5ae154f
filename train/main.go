package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"runtime/pprof"

	"gorgonia.org/tensor"

	"github.com/emsalinha/palindrome"
	"github.com/emsalinha/palindrome/training"
)

var (
	modelType    = flag.String("model_type", "rnn", "model type: rnn, lstm or rrn")
	inputLength  = flag.Int("input_length", 10, "length of an input sequence")
	inputDim     = flag.Int("input_dim", 1, "dimensionality of input sequence")
	numClasses   = flag.Int("num_classes", 10, "dimensionality of output sequence")
	numHidden    = flag.Int("num_hidden", 128, "number of hidden units in the model")
	batchSize    = flag.Int("batch_size", 128, "number of examples to process in a batch")
	learningRate = flag.Float64("learning_rate", 0.001, "learning rate")
	trainSteps   = flag.Int("train_steps", 10000, "number of training steps")
	maxNorm      = flag.Float64("max_norm", 10.0, "global gradient norm clip")
	printEvery   = flag.Int("print_every", 100, "how often to print preliminary results")
	optimizer    = flag.String("optimizer", "rmsprop", "optimizer: rmsprop or sgd")
	seed         = flag.Int64("seed", 8, "random seed")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")

	weightsChan    = make(chan chan []byte)
	accChan        = make(chan chan []float64)
	printDebugChan = make(chan struct{})
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	http.HandleFunc("/Weights", func(w http.ResponseWriter, r *http.Request) {
		c := make(chan []byte)
		weightsChan <- c
		w.Write(<-c)
	})
	http.HandleFunc("/Acc", func(w http.ResponseWriter, r *http.Request) {
		c := make(chan []float64)
		accChan <- c
		json.NewEncoder(w).Encode(<-c)
	})
	http.HandleFunc("/PrintDebug", func(w http.ResponseWriter, r *http.Request) {
		printDebugChan <- struct{}{}
	})
	port := 8088
	go func() {
		log.Printf("Listening on port %d", port)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			log.Fatalf("%v", err)
		}
	}()

	cfg := training.Config{
		Model:        *modelType,
		InputLength:  *inputLength,
		InputDim:     *inputDim,
		NumClasses:   *numClasses,
		NumHidden:    *numHidden,
		BatchSize:    *batchSize,
		LearningRate: *learningRate,
		TrainSteps:   *trainSteps,
		MaxNorm:      *maxNorm,
		PrintEvery:   *printEvery,
		Optimizer:    *optimizer,
		Seed:         *seed,
	}
	log.Printf("config: %+v", cfg)
	rand.Seed(cfg.Seed)

	net, err := training.New(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("seed: %d, numweights: %d", cfg.Seed, net.NumWeights())

	doPrint := false
	stats, err := training.Run(cfg, net, func(step int, net palindrome.Network, acc []float64) {
		handleHTTP(net, acc, &doPrint)
		if step%cfg.PrintEvery == 0 && doPrint {
			log.Printf("weights norm sample: %v", net.WeightsVal()[:10])
		}
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("best acc: %.2f at step %d", stats.BestAcc, stats.BestStep)

	saveWeights(fmt.Sprintf("%s_model.json", cfg.Model), net)
	saveNpy(fmt.Sprintf("train_acc_%s%d.npy", cfg.Model, cfg.InputLength), stats.Acc)
}

func handleHTTP(net palindrome.Network, acc []float64, doPrint *bool) {
	select {
	case cn := <-weightsChan:
		b, err := json.Marshal(net.WeightsVal())
		if err != nil {
			log.Fatalf("%v", err)
		}
		cn <- b
	case cn := <-accChan:
		cn <- acc
	case <-printDebugChan:
		*doPrint = !*doPrint
	default:
		return
	}
}

func saveWeights(name string, net palindrome.Network) {
	f, err := os.Create(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(net.WeightsVal()); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("saved weights to %s", name)
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
	log.Printf("saved accuracies to %s", name)
}
