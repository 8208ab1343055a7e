package tensorhub

import "github.com/unixpickle/anyvec"

// A Sequencer converts raw text into fixed-length integer
// sequences using a Vocabulary.
//
// Out-of-vocabulary tokens are dropped before padding, so
// an unknown token never consumes a sequence slot.
type Sequencer struct {
	Vocab  *Vocabulary
	Length int
}

// Indices encodes text as exactly s.Length token indices,
// right-padded with 0 or right-truncated as needed.
func (s *Sequencer) Indices(text string) []int {
	res := make([]int, 0, s.Length)
	for _, tok := range s.Vocab.Mode.Split(text) {
		if len(res) == s.Length {
			break
		}
		if idx, ok := s.Vocab.Index(tok); ok {
			res = append(res, idx)
		}
	}
	for len(res) < s.Length {
		res = append(res, 0)
	}
	return res
}

// Timesteps encodes text as one single-component vector
// per timestep, the input form expected by a recurrent
// classifier's embedding layer.
func (s *Sequencer) Timesteps(c anyvec.Creator, text string) []anyvec.Vector {
	indices := s.Indices(text)
	res := make([]anyvec.Vector, len(indices))
	for i, idx := range indices {
		res[i] = c.MakeVectorData(c.MakeNumericList([]float64{float64(idx)}))
	}
	return res
}

// InputVector encodes text as one flat vector of s.Length
// components, the form expected by a model signature.
func (s *Sequencer) InputVector(c anyvec.Creator, text string) anyvec.Vector {
	indices := s.Indices(text)
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = float64(idx)
	}
	return c.MakeVectorData(c.MakeNumericList(values))
}
