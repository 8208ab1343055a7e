package tensorhub

import (
	"errors"
	"reflect"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

func TestClassIndexRoundTrip(t *testing.T) {
	labels := []string{"POLITICS", "WELLNESS", "POLITICS", "SPORTS"}
	classes := NewClassIndex(labels)
	if classes.NumClasses() != 3 {
		t.Fatalf("expected 3 classes but got %d", classes.NumClasses())
	}
	for _, label := range labels {
		idx, err := classes.Encode(label)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := classes.Decode(idx)
		if err != nil {
			t.Fatal(err)
		}
		if decoded != label {
			t.Errorf("label %q: round-trip produced %q", label, decoded)
		}
	}
}

func TestClassIndexDistinct(t *testing.T) {
	classes := NewClassIndex([]string{"POLITICS", "WELLNESS"})
	i1, err := classes.Encode("POLITICS")
	if err != nil {
		t.Fatal(err)
	}
	i2, err := classes.Encode("WELLNESS")
	if err != nil {
		t.Fatal(err)
	}
	if i1 == i2 || i1 < 0 || i1 > 1 || i2 < 0 || i2 > 1 {
		t.Errorf("expected distinct indices in {0, 1} but got %d and %d", i1, i2)
	}
}

func TestClassIndexUnknownLabel(t *testing.T) {
	classes := NewClassIndex([]string{"POLITICS", "WELLNESS"})
	_, err := classes.Encode("SPORTS")
	if err == nil {
		t.Fatal("expected error for unknown label")
	}
	var unknown *UnknownLabelError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownLabelError but got %T", err)
	}
	if unknown.Label != "SPORTS" {
		t.Errorf("expected label SPORTS but got %q", unknown.Label)
	}
}

func TestClassIndexOneHot(t *testing.T) {
	c := anyvec32.CurrentCreator()
	classes := NewClassIndex([]string{"A", "B", "C", "D"})
	for i := 0; i < classes.NumClasses(); i++ {
		vec, err := classes.OneHot(c, i)
		if err != nil {
			t.Fatal(err)
		}
		if vec.Len() != 4 {
			t.Fatalf("expected length 4 but got %d", vec.Len())
		}
		for j, x := range vec.Data().([]float32) {
			if j == i && x != 1 {
				t.Errorf("index %d: expected 1 at %d but got %f", i, j, x)
			} else if j != i && x != 0 {
				t.Errorf("index %d: expected 0 at %d but got %f", i, j, x)
			}
		}
	}
	if _, err := classes.OneHot(c, 4); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := classes.OneHot(c, -1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestClassIndexSerialize(t *testing.T) {
	classes := NewClassIndex([]string{"POLITICS", "WELLNESS", "SPORTS"})
	data, err := serializer.SerializeAny(classes)
	if err != nil {
		t.Fatal(err)
	}
	var newClasses *ClassIndex
	if err := serializer.DeserializeAny(data, &newClasses); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(classes, newClasses) {
		t.Error("incorrect result")
	}
}
