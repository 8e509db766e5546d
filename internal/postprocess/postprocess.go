// Package postprocess turns raw classifier output into a validated
// probability distribution and extracts ranked predictions from it.
package postprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidPrediction marks model output no trained classifier should
// produce: NaN or Inf entries, or a constant vector.
var ErrInvalidPrediction = errors.New("model prediction failed")

// SumTolerance decides whether a raw vector is already a probability
// distribution. A sum within the tolerance passes through untouched;
// anything else is treated as logits and softmaxed. The 0.01 threshold is a
// behavioral contract, not tunable.
const SumTolerance = 0.01

// Ranked pairs an output channel with its label and probability.
type Ranked struct {
	Index      int
	Label      string
	Confidence float64
}

// Stats summarizes a distribution for diagnostic output.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Normalize converts raw scores into a probability distribution. The
// returned flag reports whether softmax was applied. The stable form
// (subtract max before exponentiating) avoids overflow on large logits.
func Normalize(raw []float32) ([]float64, bool) {
	probs := make([]float64, len(raw))
	for i, v := range raw {
		probs[i] = float64(v)
	}
	if len(probs) == 0 {
		return probs, false
	}

	sum := 0.0
	for _, v := range probs {
		sum += v
	}
	if math.Abs(sum-1.0) <= SumTolerance {
		return probs, false
	}

	maxVal := probs[0]
	for _, v := range probs[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	expSum := 0.0
	for i, v := range probs {
		e := math.Exp(v - maxVal)
		probs[i] = e
		expSum += e
	}
	for i := range probs {
		probs[i] /= expSum
	}
	return probs, true
}

// Validate rejects degenerate distributions. A constant vector is the
// sentinel for a broken or untrained model.
func Validate(probs []float64) error {
	if len(probs) == 0 {
		return fmt.Errorf("%w: empty output", ErrInvalidPrediction)
	}
	constant := true
	for _, v := range probs {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN values", ErrInvalidPrediction)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("%w: Inf values", ErrInvalidPrediction)
		}
		if v != probs[0] {
			constant = false
		}
	}
	if constant {
		return fmt.Errorf("%w: all predictions identical", ErrInvalidPrediction)
	}
	return nil
}

// Top returns the arg-max prediction. When the label set is shorter than
// the output vector the search is restricted to the labeled range.
func Top(probs []float64, labels []string) Ranked {
	n := min(len(probs), len(labels))
	if n == 0 {
		return Ranked{}
	}
	best := 0
	for i := 1; i < n; i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Ranked{Index: best, Label: labels[best], Confidence: probs[best]}
}

// TopK returns up to k predictions by descending probability. Ties keep
// their original index order.
func TopK(probs []float64, labels []string, k int) []Ranked {
	n := min(len(probs), len(labels))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})
	if k > n {
		k = n
	}
	out := make([]Ranked, 0, k)
	for _, i := range idx[:k] {
		out = append(out, Ranked{Index: i, Label: labels[i], Confidence: probs[i]})
	}
	return out
}

// Sum returns the plain sum of the distribution.
func Sum(probs []float64) float64 {
	s := 0.0
	for _, v := range probs {
		s += v
	}
	return s
}

// UniqueCount returns the number of distinct values in the distribution.
func UniqueCount(probs []float64) int {
	seen := make(map[float64]struct{}, len(probs))
	for _, v := range probs {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Describe computes min/max/mean/std (population) of the distribution.
func Describe(probs []float64) Stats {
	if len(probs) == 0 {
		return Stats{}
	}
	s := Stats{Min: probs[0], Max: probs[0]}
	sum := 0.0
	for _, v := range probs {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(probs))
	variance := 0.0
	for _, v := range probs {
		d := v - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(len(probs)))
	return s
}
