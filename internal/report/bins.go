// Package report renders descriptive charts and tables for scored datasets.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MaxBins caps the histogram size for samples with a tiny IQR and a long tail.
const MaxBins = 100

// FreedmanDiaconis returns the histogram bin count int(range / (2*IQR / n^(1/3)) + 1).
// Samples with fewer than two values or no spread get a single bin.
func FreedmanDiaconis(values []float64) int {
	n := len(values)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	iqr := percentile(sorted, 0.75) - percentile(sorted, 0.25)
	spread := floats.Max(sorted) - floats.Min(sorted)
	if iqr <= 0 || spread <= 0 {
		return 1
	}
	width := 2 * iqr / math.Cbrt(float64(n))
	bins := int(spread/width + 1)
	if bins > MaxBins {
		return MaxBins
	}
	return bins
}

// percentile interpolates linearly between closest ranks, (n-1)*p.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Bin is one histogram bar over [Low, High); the last bin also holds High.
type Bin struct {
	Low, High float64
	Count     int
}

// Histogram splits values into n equal-width bins between their min and max.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	lo, hi := floats.Min(values), floats.Max(values)
	width := (hi - lo) / float64(n)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	bins[n-1].High = hi

	for _, v := range values {
		i := n - 1
		if width > 0 {
			i = int((v - lo) / width)
			if i >= n {
				i = n - 1
			}
		}
		bins[i].Count++
	}
	return bins
}
