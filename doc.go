// Package tensorhub trains and runs recurrent text
// classifiers over news headlines.
//
// The pipeline loads a JSON dataset of headlines and
// categories, builds a word- or character-level
// vocabulary, encodes each headline as a fixed-length
// padded sequence, and trains an LSTM classifier with
// cross-entropy loss. Trained models are saved to
// versioned directories and can be reloaded for
// inference without the construction code paths.
package tensorhub

import (
	"fmt"

	"github.com/unixpickle/anyvec"
)

// A Builder constructs a classifier for a named
// architecture.
type Builder func(c anyvec.Creator, conf ModelConfig) (*Classifier, error)

// Builders maps architecture names to Builders.
//
// The transformer architectures are reserved names for
// variants that have not been implemented.
var Builders = map[string]Builder{
	"simple_lstm": NewClassifier,
	"transformer": func(c anyvec.Creator, conf ModelConfig) (*Classifier, error) {
		return nil, fmt.Errorf("architecture transformer: not implemented")
	},
	"evolved_transformer": func(c anyvec.Creator, conf ModelConfig) (*Classifier, error) {
		return nil, fmt.Errorf("architecture evolved_transformer: not implemented")
	},
}
