package tensorhub

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// ServingDefault is the name of the default signature
// exposed by a SavedModel.
const ServingDefault = "serving_default"

// A ShapeError indicates that an input vector does not
// match a signature's expected shape.
type ShapeError struct {
	Expected int
	Actual   int
}

// Error describes the mismatch.
func (s *ShapeError) Error() string {
	return fmt.Sprintf("input shape mismatch: expected %d components, got %d",
		s.Expected, s.Actual)
}

// A Signature is a named callable entry point of a
// SavedModel with a declared input/output shape.
type Signature struct {
	Name string

	// InputLength is the required component count of an
	// input vector (the fixed sequence length).
	InputLength int

	// NumClasses is the component count of the output
	// distribution.
	NumClasses int

	model *Classifier
}

// SignatureNames lists the callable signatures.
func (m *SavedModel) SignatureNames() []string {
	return []string{ServingDefault}
}

// Signature returns the named signature.
func (m *SavedModel) Signature(name string) (*Signature, error) {
	if name != ServingDefault {
		return nil, fmt.Errorf("no signature named %q", name)
	}
	return &Signature{
		Name:        ServingDefault,
		InputLength: m.Model.MaxLength,
		NumClasses:  m.Model.NumClasses,
		model:       m.Model,
	}, nil
}

// Call runs the signature on one encoded, padded
// sequence, treated as a single-item batch.
//
// The result is a normalized distribution over classes.
func (s *Signature) Call(in anyvec.Vector) (anyvec.Vector, error) {
	if in.Len() != s.InputLength {
		return nil, &ShapeError{Expected: s.InputLength, Actual: in.Len()}
	}
	c := s.model.Creator()
	values := vectorData(in)
	steps := make([]anyvec.Vector, len(values))
	for i, v := range values {
		steps[i] = c.MakeVectorData(c.MakeNumericList([]float64{v}))
	}
	seq := anyseq.ConstSeqList(c, [][]anyvec.Vector{steps})
	res := s.model.Apply(seq)
	if logProbOutput(s.model) {
		res = anydiff.Exp(res)
	}
	return res.Output().Copy(), nil
}

// Predict classifies one raw text, returning the
// predicted label and the output distribution.
func (m *SavedModel) Predict(text string) (string, anyvec.Vector, error) {
	sig, err := m.Signature(ServingDefault)
	if err != nil {
		return "", nil, err
	}
	seq := &Sequencer{Vocab: m.Vocab, Length: m.Model.MaxLength}
	out, err := sig.Call(seq.InputVector(m.Model.Creator(), text))
	if err != nil {
		return "", nil, essentials.AddCtx("predict", err)
	}
	label, err := m.Classes.Decode(anyvec.MaxIndex(out))
	if err != nil {
		return "", nil, essentials.AddCtx("predict", err)
	}
	return label, out, nil
}

// logProbOutput reports whether the model's final
// activation produces log-probabilities.
func logProbOutput(c *Classifier) bool {
	if len(c.Out) == 0 {
		return false
	}
	act, ok := c.Out[len(c.Out)-1].(anynet.Activation)
	return ok && act == anynet.LogSoftmax
}
