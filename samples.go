package tensorhub

import (
	"crypto/md5"

	"github.com/unixpickle/anynet/anys2v"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A SampleSet lazily encodes Documents as
// sequence-to-vector training samples.
//
// It implements anys2v.SampleList and anysgd.Hasher, so
// it can be split deterministically with
// anysgd.HashSplit.
type SampleSet struct {
	Creator   anyvec.Creator
	Sequencer *Sequencer
	Classes   *ClassIndex
	Docs      []Document
}

// Len returns the number of samples.
func (s *SampleSet) Len() int {
	return len(s.Docs)
}

// Swap swaps two samples.
func (s *SampleSet) Swap(i, j int) {
	s.Docs[i], s.Docs[j] = s.Docs[j], s.Docs[i]
}

// Slice copies a sub-range of the set.
func (s *SampleSet) Slice(i, j int) anysgd.SampleList {
	return &SampleSet{
		Creator:   s.Creator,
		Sequencer: s.Sequencer,
		Classes:   s.Classes,
		Docs:      append([]Document{}, s.Docs[i:j]...),
	}
}

// GetSample encodes the document at the index.
//
// It fails if the document's category was not present
// when the ClassIndex was built.
func (s *SampleSet) GetSample(idx int) (*anys2v.Sample, error) {
	doc := s.Docs[idx]
	classIdx, err := s.Classes.Encode(doc.Category)
	if err != nil {
		return nil, essentials.AddCtx("get sample", err)
	}
	out, err := s.Classes.OneHot(s.Creator, classIdx)
	if err != nil {
		return nil, essentials.AddCtx("get sample", err)
	}
	return &anys2v.Sample{
		Input:  s.Sequencer.Timesteps(s.Creator, doc.Headline),
		Output: out,
	}, nil
}

// Hash hashes the sample at the index.
func (s *SampleSet) Hash(idx int) []byte {
	sum := md5.Sum([]byte(s.Docs[idx].Headline))
	return sum[:]
}

// Split partitions the set into training and testing
// subsets using a deterministic hash split.
func (s *SampleSet) Split(trainRatio float64) (train, test *SampleSet) {
	left, right := anysgd.HashSplit(s, trainRatio)
	return left.(*SampleSet), right.(*SampleSet)
}
