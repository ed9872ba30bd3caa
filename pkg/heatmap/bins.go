package heatmap

import (
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// maxEdges bounds the size of an expanded edge table.
const maxEdges = 100000

// Level is one contour band: ticks from Start (inclusive) to Stop (exclusive)
// spaced by Step, followed by Stop itself.
type Level struct {
	Start float64 `json:"start" toml:"start"`
	Stop  float64 `json:"stop" toml:"stop"`
	Step  float64 `json:"step" toml:"step"`
}

// Expand converts levels into the sorted, deduplicated bin-edge table.
//
// Stepping is done on exact decimals seeded from the shortest decimal form of
// each bound, so (0, 1, 0.1) yields 0.3 and not 0.30000000000000004.
func Expand(levels []Level) ([]float64, error) {
	var edges []float64
	for i, l := range levels {
		if !(l.Step > 0) {
			return nil, errors.New(errors.ErrCodeInvalidLevel, "level %d: step must be positive, got %v", i, l.Step)
		}
		start, err := exact(l.Start)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "level %d: start", i)
		}
		stop, err := exact(l.Stop)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "level %d: stop", i)
		}
		step, err := exact(l.Step)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "level %d: step", i)
		}

		for v := new(big.Rat).Set(start); v.Cmp(stop) < 0; v.Add(v, step) {
			if len(edges) >= maxEdges {
				return nil, errors.New(errors.ErrCodeInvalidLevel, "level %d: more than %d bin edges", i, maxEdges)
			}
			f, _ := v.Float64()
			edges = append(edges, f)
		}
		f, _ := stop.Float64()
		edges = append(edges, f)
	}
	return dedupe(edges), nil
}

// exact returns x as the rational of its shortest decimal representation.
func exact(x float64) (*big.Rat, error) {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidLevel, "not a finite number: %s", s)
	}
	return r, nil
}

func dedupe(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// DigitizeValue maps v to the greatest edge <= v. Values below the first edge
// map to the first edge. NaN stays NaN. edges must be sorted ascending and
// non-empty.
func DigitizeValue(v float64, edges []float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	i := sort.Search(len(edges), func(i int) bool { return edges[i] > v })
	if i == 0 {
		return edges[0]
	}
	return edges[i-1]
}

// Digitize applies [DigitizeValue] to every value and returns a new slice.
// With no edges the values are copied unchanged.
func Digitize(values, edges []float64) []float64 {
	out := make([]float64, len(values))
	if len(edges) == 0 {
		copy(out, values)
		return out
	}
	for i, v := range values {
		out[i] = DigitizeValue(v, edges)
	}
	return out
}
