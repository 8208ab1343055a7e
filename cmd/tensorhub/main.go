// Command tensorhub trains news-headline classifiers and
// runs inference from saved model versions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Sanjyot22/tensorhub"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/rip"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tensorhub <train | classify> [flags]")
		os.Exit(1)
	}
	switch os.Args[1] {
	case "train":
		trainCmd(os.Args[2:])
	case "classify":
		classifyCmd(os.Args[2:])
	default:
		essentials.Die("unknown subcommand:", os.Args[1])
	}
}

func trainCmd(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	dataPath := fs.String("data", "", "path to the JSON news dataset")
	outDir := fs.String("out", "models/simple_lstm", "model output directory")
	arch := fs.String("arch", "simple_lstm", "architecture name")
	modeStr := fs.String("mode", "word", "tokenization mode (word or char)")
	epochs := fs.Int("epochs", 5, "number of epochs")
	batchSize := fs.Int("batch", tensorhub.DefaultBatchSize, "mini-batch size")
	hidden := fs.Int("hidden", 256, "recurrent hidden width")
	embedding := fs.Int("embedding", tensorhub.DefaultEmbeddingSize, "embedding width")
	rate := fs.Float64("rate", tensorhub.DefaultLearningRate, "learning rate")
	optimizer := fs.String("optimizer", "rmsprop", "optimizer (rmsprop or adam)")
	split := fs.Float64("split", 0.75, "fraction of samples used for training")
	limit := fs.Int("limit", 0, "if positive, use only the first N documents")
	fs.Parse(args)

	if *dataPath == "" {
		essentials.Die("missing required flag: -data")
	}
	mode, err := parseMode(*modeStr)
	if err != nil {
		essentials.Die(err)
	}
	builder, ok := tensorhub.Builders[*arch]
	if !ok {
		essentials.Die("unknown architecture:", *arch)
	}
	transformer, err := parseOptimizer(*optimizer)
	if err != nil {
		essentials.Die(err)
	}

	log.Println("Loading dataset...")
	ds, err := tensorhub.LoadDataSet(*dataPath)
	if err != nil {
		essentials.Die(err)
	}
	if *limit > 0 && *limit < ds.Len() {
		ds.Documents = ds.Documents[:*limit]
	}
	log.Printf("Loaded %d documents", ds.Len())

	corpus := ds.Headlines()
	vocab := tensorhub.NewVocabulary(corpus, mode)
	maxLen := vocab.MaxSequenceLength(corpus)
	if maxLen == 0 {
		essentials.Die("empty corpus")
	}
	classes := tensorhub.NewClassIndex(ds.Categories())
	log.Printf("Vocabulary: %d tokens, max sequence length %d, %d classes",
		vocab.Len(), maxLen, classes.NumClasses())

	creator := anyvec32.CurrentCreator()
	set := &tensorhub.SampleSet{
		Creator:   creator,
		Sequencer: &tensorhub.Sequencer{Vocab: vocab, Length: maxLen},
		Classes:   classes,
		Docs:      ds.Documents,
	}
	train, test := set.Split(*split)
	log.Printf("Train samples: %d", train.Len())
	log.Printf("Test samples: %d", test.Len())

	model, err := builder(creator, tensorhub.ModelConfig{
		VocabSize:     vocab.NumIndices(),
		MaxLength:     maxLen,
		EmbeddingSize: *embedding,
		HiddenSize:    *hidden,
		NumClasses:    classes.NumClasses(),
	})
	if err != nil {
		essentials.Die(err)
	}

	log.Println("Press ctrl+c once to stop...")
	err = tensorhub.Train(model, train, test, tensorhub.TrainConfig{
		Epochs:      *epochs,
		BatchSize:   *batchSize,
		Rater:       anysgd.ConstRater(*rate),
		Transformer: transformer,
		Done:        rip.NewRIP().Chan(),
	}, func(s tensorhub.EpochStats) {
		fmt.Println(s)
	})
	if err != nil {
		essentials.Die(err)
	}

	version, err := tensorhub.NextVersion(*outDir)
	if err != nil {
		essentials.Die(err)
	}
	saved := &tensorhub.SavedModel{Vocab: vocab, Classes: classes, Model: model}
	if err := tensorhub.SaveVersion(*outDir, version, saved); err != nil {
		essentials.Die(err)
	}
	log.Printf("Saved model version %d under %s", version, *outDir)

	loaded, err := tensorhub.LoadVersion(*outDir, version)
	if err != nil {
		essentials.Die(err)
	}
	if test.Len() > 0 {
		doc := test.Docs[0]
		predicted, _, err := loaded.Predict(doc.Headline)
		if err != nil {
			essentials.Die(err)
		}
		fmt.Println("Original Label:", doc.Category)
		fmt.Println("Predicted Label:", predicted)
	}
}

func classifyCmd(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	modelDir := fs.String("model", "", "model directory")
	version := fs.Int("version", 0, "model version (0 for latest)")
	text := fs.String("text", "", "headline to classify")
	fs.Parse(args)

	if *modelDir == "" {
		essentials.Die("missing required flag: -model")
	}
	if *text == "" {
		essentials.Die("missing required flag: -text")
	}

	var m *tensorhub.SavedModel
	var err error
	if *version > 0 {
		m, err = tensorhub.LoadVersion(*modelDir, *version)
	} else {
		m, err = tensorhub.LoadLatest(*modelDir)
	}
	if err != nil {
		essentials.Die(err)
	}

	label, probs, err := m.Predict(*text)
	if err != nil {
		essentials.Die(err)
	}
	fmt.Println("Predicted Label:", label)
	fmt.Printf("Confidence: %.4f\n", maxValue(probs))
}

func parseMode(s string) (tensorhub.Mode, error) {
	switch s {
	case "word":
		return tensorhub.ModeWord, nil
	case "char":
		return tensorhub.ModeChar, nil
	default:
		return 0, fmt.Errorf("unknown mode: %q", s)
	}
}

func parseOptimizer(s string) (anysgd.Transformer, error) {
	switch s {
	case "rmsprop":
		return &anysgd.RMSProp{}, nil
	case "adam":
		return &anysgd.Adam{}, nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %q", s)
	}
}

// maxValue reads the highest probability in a
// distribution vector.
func maxValue(v anyvec.Vector) float64 {
	switch x := anyvec.AbsMax(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}
