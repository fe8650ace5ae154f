package main

import (
	"encoding/json"
	"flag"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"

	"github.com/emsalinha/palindrome"
	"github.com/emsalinha/palindrome/dataset"
)

var (
	weightsFile = flag.String("weightsFile", "", "trained weights in JSON")
	modelType   = flag.String("model_type", "rnn", "model type: rnn, lstm or rrn")
	numHidden   = flag.Int("num_hidden", 128, "number of hidden units in the model")
	batchSize   = flag.Int("batch_size", 128, "evaluation batch size")
	numBatches  = flag.Int("num_batches", 10, "batches per sequence length")
	seed        = flag.Int64("seed", 9, "random seed")
)

type Run struct {
	SeqLen   int
	Accuracy float64
}

func main() {
	flag.Parse()
	rand.Seed(*seed)

	var net palindrome.Network
	switch strings.ToLower(*modelType) {
	case "rnn":
		net = palindrome.NewRNN(1, *numHidden, 10)
	case "lstm":
		net = palindrome.NewLSTM(1, *numHidden, 10)
	case "rrn":
		net = palindrome.NewRRN(1, *numHidden, 10)
	default:
		log.Fatalf("unknown model type: %s", *modelType)
	}
	copy(net.WeightsVal(), weightsFromFile())

	seqLens := []int{5, 10, 15, 25, 50}
	runs := make([]Run, 0, len(seqLens))
	for _, seql := range seqLens {
		var acc float64
		for i := 0; i < *numBatches; i++ {
			x, y := dataset.GenBatch(*batchSize, seql)
			acc += palindrome.Accuracy(net.Forward(x), y)
		}
		acc /= float64(*numBatches)
		log.Printf("sequence length: %d, accuracy: %.3f", seql, acc)
		runs = append(runs, Run{SeqLen: seql, Accuracy: acc})
	}

	http.HandleFunc("/", root(runs))
	if err := http.ListenAndServe(":9000", nil); err != nil {
		log.Printf("%v", err)
	}
}

var rootTmpl = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<body>
<h3>Palindrome accuracy by sequence length</h3>
<table border="1">
  <tr><th>sequence length</th><th>accuracy</th></tr>
  {{range .}}
  <tr><td>{{.SeqLen}}</td><td>{{printf "%.3f" .Accuracy}}</td></tr>
  {{end}}
</table>
</body>
</html>
`))

func root(runs []Run) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rootTmpl.Execute(w, runs); err != nil {
			log.Printf("%v", err)
		}
	}
}

func weightsFromFile() []float64 {
	if *weightsFile == "" {
		log.Fatalf("-weightsFile is required")
	}
	f, err := os.Open(*weightsFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()
	var ws []float64
	if err := json.NewDecoder(f).Decode(&ws); err != nil {
		log.Fatalf("%v", err)
	}
	return ws
}
