package tensorhub

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var c ClassIndex
	serializer.RegisterTypedDeserializer(c.SerializerType(), DeserializeClassIndex)
}

// An UnknownLabelError is returned when a label was not
// present when the ClassIndex was built.
type UnknownLabelError struct {
	Label string
}

// Error returns a message naming the label.
func (u *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label: %q", u.Label)
}

// A ClassIndex is a bijective mapping between class label
// strings and dense integer indices.
//
// Labels are sorted before index assignment, so the same
// label set always produces the same mapping.
type ClassIndex struct {
	classes []string
	indices map[string]int
}

// DeserializeClassIndex deserializes a ClassIndex.
func DeserializeClassIndex(d []byte) (*ClassIndex, error) {
	var data serializer.Bytes
	if err := serializer.DeserializeAny(d, &data); err != nil {
		return nil, essentials.AddCtx("deserialize ClassIndex", err)
	}
	var classes []string
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, essentials.AddCtx("deserialize ClassIndex", err)
	}
	res := &ClassIndex{classes: classes, indices: map[string]int{}}
	for i, label := range classes {
		res.indices[label] = i
	}
	return res, nil
}

// NewClassIndex builds a ClassIndex from a list of
// labels, which may contain duplicates.
func NewClassIndex(labels []string) *ClassIndex {
	seen := map[string]bool{}
	var classes []string
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	res := &ClassIndex{classes: classes, indices: map[string]int{}}
	for i, label := range classes {
		res.indices[label] = i
	}
	return res
}

// NumClasses returns the number of distinct classes.
func (c *ClassIndex) NumClasses() int {
	return len(c.classes)
}

// Classes returns the labels in index order.
func (c *ClassIndex) Classes() []string {
	return append([]string{}, c.classes...)
}

// Encode returns the index for a label.
func (c *ClassIndex) Encode(label string) (int, error) {
	idx, ok := c.indices[label]
	if !ok {
		return 0, &UnknownLabelError{Label: label}
	}
	return idx, nil
}

// Decode returns the label for an index.
// It is the exact inverse of Encode.
func (c *ClassIndex) Decode(index int) (string, error) {
	if index < 0 || index >= len(c.classes) {
		return "", fmt.Errorf("decode class: index %d out of range", index)
	}
	return c.classes[index], nil
}

// OneHot produces a one-hot vector of length NumClasses
// with a 1 at the given index.
func (c *ClassIndex) OneHot(cr anyvec.Creator, index int) (anyvec.Vector, error) {
	if index < 0 || index >= len(c.classes) {
		return nil, fmt.Errorf("one-hot: index %d out of range", index)
	}
	values := make([]float64, len(c.classes))
	values[index] = 1
	return cr.MakeVectorData(cr.MakeNumericList(values)), nil
}

// SerializerType returns the unique ID used to serialize
// a ClassIndex with the serializer package.
func (c *ClassIndex) SerializerType() string {
	return "github.com/Sanjyot22/tensorhub.ClassIndex"
}

// Serialize serializes the ClassIndex.
func (c *ClassIndex) Serialize() ([]byte, error) {
	data, err := json.Marshal(c.classes)
	if err != nil {
		return nil, essentials.AddCtx("serialize ClassIndex", err)
	}
	return serializer.SerializeAny(serializer.Bytes(data))
}
