package score

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of scores.
type Summary struct {
	Count   int          `json:"count"`
	Numeric int          `json:"numeric"`
	Mean    float64      `json:"mean"`
	Min     float64      `json:"min"`
	Max     float64      `json:"max"`
	Tiers   map[Tier]int `json:"-"`
}

// Summarize classifies each value and computes mean, min and max over the
// values that have a finite numeric form.
func Summarize(values []any) Summary {
	s := Summary{Count: len(values), Tiers: make(map[Tier]int)}
	var nums []float64
	for _, v := range values {
		s.Tiers[Classify(v)]++
		if f, ok := numeric(v); ok {
			nums = append(nums, f)
		}
	}
	s.Numeric = len(nums)
	if len(nums) == 0 {
		return s
	}
	s.Mean = stat.Mean(nums, nil)
	s.Min = floats.Min(nums)
	s.Max = floats.Max(nums)
	return s
}

func numeric(v any) (float64, bool) {
	if x, ok := v.(string); ok {
		return parseFinite(strings.TrimSpace(x))
	}
	f, ok := asFloat(v)
	return f, ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}
