package scoring

import (
	"errors"
	"fmt"
	"math"

	"questionnaire-reader/internal/domain"
)

const SHSItemCount = 4

var ErrSHSItemCount = errors.New("shs: wrong number of responses")

// SHSItems are the dataset columns of the Subjective Happiness Scale, in order.
var SHSItems = []string{"SHS Q1", "SHS Q2", "SHS Q3", "SHS Q4"}

// shsReversed marks item 4, scored as 8 - v.
var shsReversed = [SHSItemCount]bool{false, false, false, true}

// ScoreSHS averages the four 1..7 responses after reversing item 4.
func ScoreSHS(responses []string) (domain.SHSResult, error) {
	if len(responses) != SHSItemCount {
		return domain.SHSResult{}, fmt.Errorf("%w: got %d, want %d", ErrSHSItemCount, len(responses), SHSItemCount)
	}

	c := collector{instrument: domain.InstrumentSHS}
	items := make([]float64, 0, SHSItemCount)
	for i, raw := range responses {
		v, ok := c.number(SHSItems[i], raw)
		if !ok {
			continue
		}
		if v != math.Trunc(v) || v < 1 || v > 7 {
			c.add(domain.IssueUnmapped, SHSItems[i], raw)
			continue
		}
		if shsReversed[i] {
			v = 8 - v
		}
		items = append(items, v)
	}

	score := mean(items)
	if !score.Valid {
		c.add(domain.IssueEmpty, domain.SHSColumn, "")
	}
	return domain.SHSResult{Score: score, Issues: c.issues}, nil
}
