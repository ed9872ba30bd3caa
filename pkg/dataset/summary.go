package dataset

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// Summary describes the values of one column.
type Summary struct {
	Count   int     // finite values
	Missing int     // NaN or infinite values
	Min     float64 // NaN when Count is 0
	Max     float64 // NaN when Count is 0
	Mean    float64 // NaN when Count is 0
}

// Summarize describes xs, ignoring missing values.
func Summarize(xs []float64) Summary {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	s := Summary{Count: len(finite), Missing: len(xs) - len(finite)}
	if len(finite) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min, s.Max = stats.Bounds(finite)
	s.Mean = stats.Mean(finite)
	return s
}
