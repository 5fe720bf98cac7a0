package linking

import "math"

// tanh bounds a feature magnitude into (-1, 1); spec §4.6 uses it
// throughout to keep count-derived signals within the classifier's
// expected range.
func tanh(x float64) float64 {
	return math.Tanh(x)
}
