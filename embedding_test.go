package tensorhub

import (
	"reflect"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anydifftest"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

func TestEmbeddingOutput(t *testing.T) {
	c := anyvec32.CurrentCreator()
	emb, err := NewEmbeddingData(c, 3, 2, []float64{
		0, 1,
		10, 11,
		20, 21,
	})
	if err != nil {
		t.Fatal(err)
	}
	in := anydiff.NewConst(anyvec32.MakeVectorData([]float32{2, 0}))
	out := emb.Apply(in, 2).Output().Data().([]float32)
	expected := []float32{20, 21, 0, 1}
	if !reflect.DeepEqual(out, expected) {
		t.Errorf("expected %v but got %v", expected, out)
	}
}

func TestEmbeddingProp(t *testing.T) {
	c := anyvec32.CurrentCreator()
	emb := NewEmbedding(c, 5, 3)
	in := anydiff.NewConst(anyvec32.MakeVectorData([]float32{1, 0, 4, 1}))
	checker := &anydifftest.ResChecker{
		F: func() anydiff.Res {
			return emb.Apply(in, 4)
		},
		V: emb.Parameters(),
	}
	checker.FullCheck(t)
}

func TestEmbeddingBadMatrix(t *testing.T) {
	c := anyvec32.CurrentCreator()
	if _, err := NewEmbeddingData(c, 3, 2, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for mismatched matrix size")
	}
}

func TestEmbeddingSerialize(t *testing.T) {
	emb := NewEmbedding(anyvec32.CurrentCreator(), 7, 4)
	data, err := serializer.SerializeAny(emb)
	if err != nil {
		t.Fatal(err)
	}
	var newEmb *Embedding
	if err := serializer.DeserializeAny(data, &newEmb); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(emb, newEmb) {
		t.Error("incorrect result")
	}
}
