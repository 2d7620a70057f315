// Package numeric has the rounding and mean helpers shared by the scoring and
// analytics packages.
package numeric

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Round rounds half away from zero to the given number of decimal places.
// NaN passes through unchanged.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) {
		return x
	}
	r, err := stats.Round(x, places)
	if err != nil {
		return x
	}
	return r
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}
