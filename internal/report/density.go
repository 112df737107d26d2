package report

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KDE evaluates a Gaussian kernel density estimate of values at points. The bandwidth
// follows Scott's rule, sd * n^(-1/5). Samples with fewer than two values or no spread
// have no density and return nil.
func KDE(values, points []float64) []float64 {
	n := len(values)
	if n < 2 || len(points) == 0 {
		return nil
	}
	sd := stat.StdDev(values, nil)
	if sd <= 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(float64(n), -0.2)

	out := make([]float64, len(points))
	for _, v := range values {
		kernel := distuv.Normal{Mu: v, Sigma: bw}
		for i, x := range points {
			out[i] += kernel.Prob(x)
		}
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// Midpoints returns the centre of each bin.
func Midpoints(bins []Bin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = (b.Low + b.High) / 2
	}
	return out
}

// CountRow is one line of a value-count table.
type CountRow struct {
	Value   string  `json:"value"`
	N       int     `json:"n"`
	Percent float64 `json:"percent"`
}

// CountTable adds each category's share of the total to counts, keeping their order.
func CountTable(counts []Count) []CountRow {
	total := 0
	for _, c := range counts {
		total += c.N
	}
	rows := make([]CountRow, len(counts))
	for i, c := range counts {
		rows[i] = CountRow{Value: c.Value, N: c.N}
		if total > 0 {
			rows[i].Percent = 100 * float64(c.N) / float64(total)
		}
	}
	return rows
}
