package scoring

import (
	"errors"
	"fmt"
	"strconv"

	"questionnaire-reader/internal/domain"
)

// BFIItemCount is the length of a Big Five Inventory response vector.
const BFIItemCount = 44

var ErrBFIItemCount = errors.New("bfi: wrong number of responses")

// BFILabels is the Hebrew agreement scale, 1 (strongly disagree) to 5 (strongly agree).
var BFILabels = newLabelMap(1,
	"בהחלט לא מסכים",
	"לא מסכים",
	"ניטראלי",
	"מסכים",
	"מסכים בהחלט",
)

// bfiItems partitions the 44 zero-based item positions between the five traits.
var bfiItems = map[domain.Trait][]int{
	domain.TraitAgreeableness:     {1, 6, 11, 16, 21, 26, 31, 36, 41},
	domain.TraitConscientiousness: {2, 7, 12, 17, 22, 27, 32, 37, 42},
	domain.TraitExtraversion:      {0, 5, 10, 15, 20, 25, 30, 35},
	domain.TraitNeuroticism:       {3, 8, 13, 18, 23, 28, 33, 38},
	domain.TraitOpenness:          {4, 9, 14, 19, 24, 29, 34, 39, 40, 43},
}

// bfiReversed lists the negatively keyed positions, scored as 6 - v.
var bfiReversed = map[int]bool{
	1: true, 5: true, 7: true, 8: true, 11: true, 17: true, 20: true, 22: true,
	23: true, 26: true, 30: true, 33: true, 34: true, 36: true, 40: true, 42: true,
}

// BFIItems returns the item positions that belong to trait.
func BFIItems(trait domain.Trait) []int {
	return append([]int(nil), bfiItems[trait]...)
}

// BFIReversed reports whether the item at position i is reverse keyed.
func BFIReversed(i int) bool { return bfiReversed[i] }

// ScoreBFI maps each response through BFILabels, reverses the negatively keyed items and
// averages the present items of every trait. A trait with no usable item is undefined.
func ScoreBFI(responses []string) (domain.BFIResult, error) {
	if len(responses) != BFIItemCount {
		return domain.BFIResult{}, fmt.Errorf("%w: got %d, want %d", ErrBFIItemCount, len(responses), BFIItemCount)
	}

	c := collector{instrument: domain.InstrumentBFI}
	values := make([]int, BFIItemCount)
	present := make([]bool, BFIItemCount)
	for i, raw := range responses {
		v, ok := c.ordinal(strconv.Itoa(i), raw, BFILabels)
		if !ok {
			continue
		}
		if bfiReversed[i] {
			v = 6 - v
		}
		values[i], present[i] = v, true
	}

	scores := make(map[domain.Trait]domain.Score, len(domain.Traits))
	for _, trait := range domain.Traits {
		items := make([]float64, 0, len(bfiItems[trait]))
		for _, i := range bfiItems[trait] {
			if present[i] {
				items = append(items, float64(values[i]))
			}
		}
		scores[trait] = mean(items)
		if !scores[trait].Valid {
			c.add(domain.IssueEmpty, string(trait), "")
		}
	}

	return domain.BFIResult{Scores: scores, Issues: c.issues}, nil
}
