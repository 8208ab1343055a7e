package tensorhub

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var e Embedding
	serializer.RegisterTypedDeserializer(e.SerializerType(), DeserializeEmbedding)
}

// An Embedding maps token indices to learned vectors.
//
// Its input is one component per batch entry, holding a
// token index as a floating-point value. Its output is
// the corresponding row of the weight matrix.
type Embedding struct {
	NumTokens int
	OutCount  int
	Weights   *anydiff.Var
}

// DeserializeEmbedding attempts to deserialize an
// Embedding.
func DeserializeEmbedding(d []byte) (*Embedding, error) {
	var numTokens, outCount serializer.Int
	var weights *anyvecsave.S
	if err := serializer.DeserializeAny(d, &numTokens, &outCount, &weights); err != nil {
		return nil, essentials.AddCtx("deserialize Embedding", err)
	}
	if int(numTokens)*int(outCount) != weights.Vector.Len() {
		return nil, errors.New("deserialize Embedding: invalid matrix dimensions")
	}
	return &Embedding{
		NumTokens: int(numTokens),
		OutCount:  int(outCount),
		Weights:   anydiff.NewVar(weights.Vector),
	}, nil
}

// NewEmbedding creates a new, randomized Embedding with
// numTokens rows (the padding row included) and out
// columns.
func NewEmbedding(c anyvec.Creator, numTokens, out int) *Embedding {
	res := &Embedding{
		NumTokens: numTokens,
		OutCount:  out,
		Weights:   anydiff.NewVar(c.MakeVector(numTokens * out)),
	}
	anyvec.Rand(res.Weights.Vector, anyvec.Normal, nil)
	res.Weights.Vector.Scale(c.MakeNumeric(1 / math.Sqrt(float64(out))))
	return res
}

// NewEmbeddingData creates an Embedding with a
// precomputed weight matrix in row-major order.
func NewEmbeddingData(c anyvec.Creator, numTokens, out int, data []float64) (*Embedding, error) {
	if len(data) != numTokens*out {
		return nil, fmt.Errorf("embedding matrix: got %d values, expected %d",
			len(data), numTokens*out)
	}
	return &Embedding{
		NumTokens: numTokens,
		OutCount:  out,
		Weights:   anydiff.NewVar(c.MakeVectorData(c.MakeNumericList(data))),
	}, nil
}

// Apply looks up one row per batch entry.
func (e *Embedding) Apply(in anydiff.Res, batch int) anydiff.Res {
	if in.Output().Len() != batch {
		panic(fmt.Sprintf("input length should be %d, but got %d", batch,
			in.Output().Len()))
	}
	c := in.Output().Creator()
	indices := vectorData(in.Output())
	table := make([]int, 0, batch*e.OutCount)
	for _, v := range indices {
		idx := int(v)
		if idx < 0 || idx >= e.NumTokens {
			panic(fmt.Sprintf("token index %d out of range [0, %d)", idx, e.NumTokens))
		}
		for j := 0; j < e.OutCount; j++ {
			table = append(table, idx*e.OutCount+j)
		}
	}
	mapper := c.MakeMapper(e.NumTokens*e.OutCount, table)
	out := c.MakeVector(batch * e.OutCount)
	mapper.Map(e.Weights.Vector, out)
	return &embeddingRes{
		Layer:  e,
		Mapper: mapper,
		OutVec: out,
		V:      anydiff.NewVarSet(e.Weights),
	}
}

// Parameters returns a slice containing the weights.
func (e *Embedding) Parameters() []*anydiff.Var {
	return []*anydiff.Var{e.Weights}
}

// SerializerType returns the unique ID used to serialize
// an Embedding with the serializer package.
func (e *Embedding) SerializerType() string {
	return "github.com/Sanjyot22/tensorhub.Embedding"
}

// Serialize serializes the Embedding.
func (e *Embedding) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		serializer.Int(e.NumTokens),
		serializer.Int(e.OutCount),
		&anyvecsave.S{Vector: e.Weights.Vector},
	)
}

type embeddingRes struct {
	Layer  *Embedding
	Mapper anyvec.Mapper
	OutVec anyvec.Vector
	V      anydiff.VarSet
}

func (e *embeddingRes) Output() anyvec.Vector {
	return e.OutVec
}

func (e *embeddingRes) Vars() anydiff.VarSet {
	return e.V
}

func (e *embeddingRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	if weightGrad, ok := g[e.Layer.Weights]; ok {
		e.Mapper.MapTranspose(u, weightGrad)
	}
}
