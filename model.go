package tensorhub

import (
	"errors"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// Default configuration values, matching the single
// variant this package ships.
const (
	DefaultEmbeddingSize = 128
	DefaultHiddenSize    = 512
	DefaultMaxLength     = 512
)

func init() {
	var c Classifier
	serializer.RegisterTypedDeserializer(c.SerializerType(), DeserializeClassifier)
}

// A ModelConfig describes a classifier architecture.
//
// The zero value of a field selects its default.
type ModelConfig struct {
	// VocabSize is the total number of token indices,
	// including the reserved padding index.
	VocabSize int

	// MaxLength is the fixed input sequence length.
	MaxLength int

	// EmbeddingSize is the embedding vector width.
	EmbeddingSize int

	// HiddenSize is the recurrent hidden width.
	HiddenSize int

	// NumClasses is the number of output classes.
	NumClasses int

	// EmbeddingMatrix, if non-nil, supplies precomputed
	// embedding weights in row-major order
	// (VocabSize rows by EmbeddingSize columns).
	EmbeddingMatrix []float64

	// LearnEmbedding makes a precomputed embedding matrix
	// trainable. Randomly-initialized embeddings are
	// always trainable.
	LearnEmbedding bool

	// Activation, if non-nil, is applied to the recurrent
	// outputs before the final dense layer.
	Activation anynet.Layer

	// OutputActivation is the final activation.
	// It defaults to a normalized distribution output
	// (log-softmax; Signature calls exponentiate it).
	OutputActivation anynet.Layer
}

// A Classifier maps one padded token sequence to a
// distribution over classes.
type Classifier struct {
	MaxLength  int
	NumClasses int

	Embed *Embedding
	LSTM  *anyrnn.LSTM
	Out   anynet.Net

	// TrainEmbedding indicates whether Parameters()
	// includes the embedding weights.
	TrainEmbedding bool
}

// DeserializeClassifier attempts to deserialize a
// Classifier.
func DeserializeClassifier(d []byte) (*Classifier, error) {
	var maxLen, numClasses, trainEmb serializer.Int
	var emb *Embedding
	var lstm *anyrnn.LSTM
	var out anynet.Net
	err := serializer.DeserializeAny(d, &maxLen, &numClasses, &trainEmb, &emb, &lstm, &out)
	if err != nil {
		return nil, essentials.AddCtx("deserialize Classifier", err)
	}
	return &Classifier{
		MaxLength:      int(maxLen),
		NumClasses:     int(numClasses),
		Embed:          emb,
		LSTM:           lstm,
		Out:            out,
		TrainEmbedding: trainEmb != 0,
	}, nil
}

// NewClassifier creates a classifier for the
// configuration.
//
// The same configuration always produces the same
// architecture; weights are randomized unless an
// embedding matrix is supplied.
func NewClassifier(c anyvec.Creator, conf ModelConfig) (*Classifier, error) {
	if conf.VocabSize < 1 {
		return nil, errors.New("new classifier: vocab size must be positive")
	}
	if conf.NumClasses < 1 {
		return nil, errors.New("new classifier: class count must be positive")
	}
	maxLen := conf.MaxLength
	if maxLen == 0 {
		maxLen = DefaultMaxLength
	}
	if maxLen < 1 {
		return nil, errors.New("new classifier: max length must be positive")
	}
	embSize := conf.EmbeddingSize
	if embSize == 0 {
		embSize = DefaultEmbeddingSize
	}
	hidden := conf.HiddenSize
	if hidden == 0 {
		hidden = DefaultHiddenSize
	}

	var emb *Embedding
	trainEmb := true
	if conf.EmbeddingMatrix != nil {
		var err error
		emb, err = NewEmbeddingData(c, conf.VocabSize, embSize, conf.EmbeddingMatrix)
		if err != nil {
			return nil, essentials.AddCtx("new classifier", err)
		}
		trainEmb = conf.LearnEmbedding
	} else {
		emb = NewEmbedding(c, conf.VocabSize, embSize)
	}

	var out anynet.Net
	if conf.Activation != nil {
		out = append(out, conf.Activation)
	}
	out = append(out, anynet.NewFC(c, hidden, conf.NumClasses))
	if conf.OutputActivation != nil {
		out = append(out, conf.OutputActivation)
	} else {
		out = append(out, anynet.LogSoftmax)
	}

	return &Classifier{
		MaxLength:      maxLen,
		NumClasses:     conf.NumClasses,
		Embed:          emb,
		LSTM:           anyrnn.NewLSTM(c, embSize, hidden),
		Out:            out,
		TrainEmbedding: trainEmb,
	}, nil
}

// Creator returns the creator backing the model weights.
func (c *Classifier) Creator() anyvec.Creator {
	return c.Embed.Weights.Vector.Creator()
}

// Apply runs the classifier on a batch of equally-long
// token sequences, producing one packed output
// distribution per sequence.
func (c *Classifier) Apply(seq anyseq.Seq) anydiff.Res {
	outSeq := anyrnn.Map(seq, anyrnn.Stack{
		&anyrnn.LayerBlock{Layer: c.Embed},
		c.LSTM,
	})
	outs := outSeq.Output()
	if len(outs) == 0 {
		panic("cannot apply classifier to an empty batch")
	}
	n := outs[len(outs)-1].NumPresent()
	return c.Out.Apply(anyseq.Tail(outSeq), n)
}

// Parameters returns the trainable parameters.
func (c *Classifier) Parameters() []*anydiff.Var {
	var res []*anydiff.Var
	if c.TrainEmbedding {
		res = append(res, c.Embed.Parameters()...)
	}
	res = append(res, c.LSTM.Parameters()...)
	res = append(res, c.Out.Parameters()...)
	return res
}

// SerializerType returns the unique ID used to serialize
// a Classifier with the serializer package.
func (c *Classifier) SerializerType() string {
	return "github.com/Sanjyot22/tensorhub.Classifier"
}

// Serialize serializes the Classifier.
func (c *Classifier) Serialize() ([]byte, error) {
	trainEmb := serializer.Int(0)
	if c.TrainEmbedding {
		trainEmb = 1
	}
	return serializer.SerializeAny(
		serializer.Int(c.MaxLength),
		serializer.Int(c.NumClasses),
		trainEmb,
		c.Embed,
		c.LSTM,
		c.Out,
	)
}
