package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Count is the number of occurrences of one category.
type Count struct {
	Value string `json:"value"`
	N     int    `json:"n"`
}

// ValueCounts tallies non-blank values, most frequent first.
func ValueCounts(values []string) []Count {
	tally := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		tally[v]++
	}
	counts := make([]Count, 0, len(tally))
	for v, n := range tally {
		counts = append(counts, Count{Value: v, N: n})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// SortByValue orders counts by category, numerically when every category is a number.
func SortByValue(counts []Count) []Count {
	out := append([]Count(nil), counts...)
	numeric := true
	for _, c := range out {
		if _, err := strconv.ParseFloat(c.Value, 64); err != nil {
			numeric = false
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(out[i].Value, 64)
			b, _ := strconv.ParseFloat(out[j].Value, 64)
			return a < b
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Numeric parses the numeric cells of a column. ok is false when any non-blank cell is
// not a number, meaning the column is categorical.
func Numeric(values []string) (nums []float64, ok bool) {
	nums = make([]float64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, true
}

// Summary describes a numeric column. SD is the sample standard deviation.
type Summary struct {
	Column string  `json:"column"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the summary of values; an empty column yields N == 0.
func Summarize(column string, values []float64) Summary {
	s := Summary{Column: column, N: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Mean, s.SD = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		s.SD = 0
	}
	s.Min, s.Max = floats.Min(values), floats.Max(values)
	return s
}
