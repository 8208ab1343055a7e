package tensorhub

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var v Vocabulary
	serializer.RegisterTypedDeserializer(v.SerializerType(), DeserializeVocabulary)
}

// A Mode selects the unit of tokenization.
type Mode int

// Supported tokenization modes.
const (
	ModeWord Mode = iota
	ModeChar
)

// Split splits text into tokens for the mode.
func (m Mode) Split(text string) []string {
	switch m {
	case ModeWord:
		return strings.Fields(text)
	case ModeChar:
		res := make([]string, 0, len(text))
		for _, r := range text {
			res = append(res, string(r))
		}
		return res
	default:
		panic(fmt.Sprintf("unknown mode: %d", m))
	}
}

// A Vocabulary is a frozen token-to-index mapping.
//
// Indices start at 1 and are assigned in the order tokens
// first appear in the corpus. Index 0 is reserved for
// padding.
type Vocabulary struct {
	Mode Mode

	tokens  []string
	indices map[string]int
}

// DeserializeVocabulary deserializes a Vocabulary.
func DeserializeVocabulary(d []byte) (*Vocabulary, error) {
	var mode serializer.Int
	var data serializer.Bytes
	if err := serializer.DeserializeAny(d, &mode, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Vocabulary", err)
	}
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, essentials.AddCtx("deserialize Vocabulary", err)
	}
	res := &Vocabulary{
		Mode:    Mode(mode),
		tokens:  tokens,
		indices: map[string]int{},
	}
	for i, tok := range tokens {
		res.indices[tok] = i + 1
	}
	return res, nil
}

// NewVocabulary builds a Vocabulary by scanning the
// corpus sequentially.
//
// An empty corpus yields an empty Vocabulary.
func NewVocabulary(corpus []string, mode Mode) *Vocabulary {
	res := &Vocabulary{Mode: mode, indices: map[string]int{}}
	for _, text := range corpus {
		for _, tok := range mode.Split(text) {
			if _, ok := res.indices[tok]; !ok {
				res.tokens = append(res.tokens, tok)
				res.indices[tok] = len(res.tokens)
			}
		}
	}
	return res
}

// Index returns the index of a token, or false if the
// token is not in the Vocabulary.
func (v *Vocabulary) Index(token string) (int, bool) {
	idx, ok := v.indices[token]
	return idx, ok
}

// Len returns the number of tokens, not counting the
// reserved padding index.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// NumIndices returns the total number of indices,
// including the reserved padding index.
// This is the row count for an embedding layer.
func (v *Vocabulary) NumIndices() int {
	return len(v.tokens) + 1
}

// MaxSequenceLength returns the maximum token count of
// any text in the corpus under the Vocabulary's mode.
func (v *Vocabulary) MaxSequenceLength(corpus []string) int {
	var max int
	for _, text := range corpus {
		if n := len(v.Mode.Split(text)); n > max {
			max = n
		}
	}
	return max
}

// SerializerType returns the unique ID used to serialize
// a Vocabulary with the serializer package.
func (v *Vocabulary) SerializerType() string {
	return "github.com/Sanjyot22/tensorhub.Vocabulary"
}

// Serialize serializes the Vocabulary.
func (v *Vocabulary) Serialize() ([]byte, error) {
	data, err := json.Marshal(v.tokens)
	if err != nil {
		return nil, essentials.AddCtx("serialize Vocabulary", err)
	}
	return serializer.SerializeAny(serializer.Int(v.Mode), serializer.Bytes(data))
}
