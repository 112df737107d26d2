package scoring

type comparison int

const (
	lessThan comparison = iota
	atMost
	greaterThan
	atLeast
)

type threshold struct {
	op      comparison
	limit   float64
	ordinal int
}

func (t threshold) matches(v float64) bool {
	switch t.op {
	case lessThan:
		return v < t.limit
	case atMost:
		return v <= t.limit
	case greaterThan:
		return v > t.limit
	default:
		return v >= t.limit
	}
}

// Band discretizes a value into an ordinal category. Rules are checked in order and the
// first match wins; values matching no rule fall into Otherwise.
type Band struct {
	rules     []threshold
	Otherwise int
}

// Apply returns the ordinal category of v.
func (b Band) Apply(v float64) int {
	for _, r := range b.rules {
		if r.matches(v) {
			return r.ordinal
		}
	}
	return b.Otherwise
}

var (
	// LatencyBand bins item 2, minutes to fall asleep.
	LatencyBand = Band{rules: []threshold{
		{atMost, 15, 0},
		{atMost, 30, 1},
		{atMost, 60, 2},
	}, Otherwise: 3}

	// DurationBand bins item 4, hours of actual sleep.
	DurationBand = Band{rules: []threshold{
		{greaterThan, 7, 0},
		{atLeast, 6, 1},
		{atLeast, 5, 2},
	}, Otherwise: 3}

	// EfficiencyBand bins habitual sleep efficiency (hours asleep / hours in bed).
	EfficiencyBand = Band{rules: []threshold{
		{atLeast, 0.85, 0},
		{atLeast, 0.75, 1},
		{atLeast, 0.65, 2},
	}, Otherwise: 3}

	// PairSumBand bins the sums used by components 2 and 7.
	PairSumBand = Band{rules: []threshold{
		{lessThan, 1, 0},
		{atMost, 2, 1},
		{atMost, 4, 2},
	}, Otherwise: 3}

	// DisturbanceBand bins the sum of the nine sleep disturbance items.
	DisturbanceBand = Band{rules: []threshold{
		{lessThan, 1, 0},
		{atMost, 9, 1},
		{atMost, 18, 2},
	}, Otherwise: 3}
)
