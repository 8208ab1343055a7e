package tensorhub

import (
	"fmt"

	"github.com/unixpickle/anyvec"
)

// vectorData reads a vector's components as float64s.
func vectorData(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	case []float64:
		return append([]float64{}, data...)
	default:
		panic(fmt.Sprintf("unsupported numeric list: %T", data))
	}
}

// numericValue reads a scalar Numeric as a float64.
func numericValue(n anyvec.Numeric) float64 {
	switch x := n.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		panic(fmt.Sprintf("unsupported numeric: %T", n))
	}
}

// argmax returns the index of the maximum value, with
// ties broken by the lowest index.
func argmax(values []float64) int {
	res := 0
	for i, x := range values {
		if x > values[res] {
			res = i
		}
	}
	return res
}
