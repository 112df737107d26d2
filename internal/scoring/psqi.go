package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"questionnaire-reader/internal/domain"
)

// PSQIItems are the item labels of the Pittsburgh Sleep Quality Index export, in column order.
var PSQIItems = []string{
	"1", "2", "3", "4",
	"5a", "5b", "5c", "5d", "5e", "5f", "5g", "5h", "5i", "5j", "5j_descriptive",
	"6", "7", "8", "9",
	"10", "10a", "10b", "10c", "10d", "10e", "10e_descriptive",
}

var ErrPSQIItemCount = errors.New("psqi: wrong number of responses")

var (
	// PSQIFrequency scores items 5a-5j, 7 and 8.
	PSQIFrequency = newLabelMap(0,
		"לא במהלך החודש האחרון",
		"פחות מפעם בשבוע",
		"פעם או פעמיים בשבוע",
		"שלוש פעמים או יותר בשבוע",
	)
	// PSQIQuality scores item 6.
	PSQIQuality = newLabelMap(0,
		"טובה מאוד",
		"די טובה",
		"די גרועה",
		"גרועה מאוד",
	)
	// PSQIDifficulty scores item 9.
	PSQIDifficulty = newLabelMap(0,
		"לא התקשיתי כלל",
		"התקשיתי מעט מאוד",
		"די התקשיתי",
		"התקשיתי מאוד",
	)
)

// psqiLabelItems maps every categorical item that feeds a component to its scale.
var psqiLabelItems = map[string]LabelMap{
	"5a": PSQIFrequency, "5b": PSQIFrequency, "5c": PSQIFrequency, "5d": PSQIFrequency,
	"5e": PSQIFrequency, "5f": PSQIFrequency, "5g": PSQIFrequency, "5h": PSQIFrequency,
	"5i": PSQIFrequency, "5j": PSQIFrequency,
	"6": PSQIQuality,
	"7": PSQIFrequency,
	"8": PSQIFrequency,
	"9": PSQIDifficulty,
}

// psqiDisturbances are the items summed by component 5.
var psqiDisturbances = []string{"5b", "5c", "5d", "5e", "5f", "5g", "5h", "5i", "5j"}

// PSQIFromSlice keys a positional response vector by PSQIItems.
func PSQIFromSlice(responses []string) (map[string]string, error) {
	if len(responses) != len(PSQIItems) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPSQIItemCount, len(responses), len(PSQIItems))
	}
	out := make(map[string]string, len(PSQIItems))
	for i, item := range PSQIItems {
		out[item] = responses[i]
	}
	return out, nil
}

// psqiInputs are the mapped item values of one respondent; absent keys are missing or unusable.
type psqiInputs struct {
	ordinals   map[string]int
	latency    float64
	hasLatency bool
	hours      float64
	hasHours   bool
	bed, rise  time.Duration
	hasClock   bool
}

// ScorePSQI computes the seven components and the global score from responses keyed
// by item label. Labels not used by any component are ignored.
func ScorePSQI(responses map[string]string) domain.PSQIResult {
	c := collector{instrument: domain.InstrumentPSQI}
	in := readPSQI(&c, responses)

	comps := make(map[string]domain.Ordinal, len(domain.PSQIComponents))

	if v, ok := in.ordinals["6"]; ok {
		comps[domain.PSQIComp1] = domain.NewOrdinal(v)
	}

	var latencyParts []int
	if in.hasLatency {
		latencyParts = append(latencyParts, LatencyBand.Apply(in.latency))
	}
	if v, ok := in.ordinals["5a"]; ok {
		latencyParts = append(latencyParts, v)
	}
	comps[domain.PSQIComp2] = bandedSum(&c, domain.PSQIComp2, latencyParts, PairSumBand)

	if in.hasHours {
		comps[domain.PSQIComp3] = domain.NewOrdinal(DurationBand.Apply(in.hours))
	}

	if in.hasClock && in.hasHours {
		if inBed := timeInBed(in.bed, in.rise); inBed == 0 {
			c.add(domain.IssueDivisionByZero, domain.PSQIComp4, "")
		} else {
			comps[domain.PSQIComp4] = domain.NewOrdinal(EfficiencyBand.Apply(efficiency(in.hours, inBed)))
		}
	}

	var disturbances []int
	for _, item := range psqiDisturbances {
		if v, ok := in.ordinals[item]; ok {
			disturbances = append(disturbances, v)
		}
	}
	comps[domain.PSQIComp5] = bandedSum(&c, domain.PSQIComp5, disturbances, DisturbanceBand)

	if v, ok := in.ordinals["7"]; ok {
		comps[domain.PSQIComp6] = domain.NewOrdinal(v)
	}

	var daytime []int
	for _, item := range []string{"8", "9"} {
		if v, ok := in.ordinals[item]; ok {
			daytime = append(daytime, v)
		}
	}
	comps[domain.PSQIComp7] = bandedSum(&c, domain.PSQIComp7, daytime, PairSumBand)

	global := 0
	complete := true
	for _, name := range domain.PSQIComponents {
		comp, ok := comps[name]
		if !ok || !comp.Valid {
			complete = false
			comps[name] = domain.Ordinal{}
			continue
		}
		global += comp.Value
	}

	result := domain.PSQIResult{Components: comps, Issues: c.issues}
	if complete {
		result.Global = domain.NewOrdinal(global)
	}
	return result
}

func readPSQI(c *collector, responses map[string]string) psqiInputs {
	in := psqiInputs{ordinals: make(map[string]int, len(psqiLabelItems))}

	// stable item order keeps the issue list deterministic
	for _, item := range PSQIItems {
		scale, ok := psqiLabelItems[item]
		if !ok {
			continue
		}
		if v, ok := c.ordinal(item, responses[item], scale); ok {
			in.ordinals[item] = v
		}
	}

	in.latency, in.hasLatency = c.number("2", responses["2"])
	in.hours, in.hasHours = c.number("4", responses["4"])

	bed, bedErr := clockItem(c, "1", responses["1"])
	rise, riseErr := clockItem(c, "3", responses["3"])
	if bedErr == nil && riseErr == nil {
		in.bed, in.rise, in.hasClock = bed, rise, true
	}
	return in
}

func clockItem(c *collector, item, raw string) (time.Duration, error) {
	d, err := ParseClock(raw)
	if err != nil {
		if isBlank(normalizeLabel(raw)) {
			c.add(domain.IssueMissing, item, "")
		} else {
			c.add(domain.IssueMalformedTime, item, raw)
		}
	}
	return d, err
}

// bandedSum bins the sum of the present parts; no parts leaves the component undefined.
func bandedSum(c *collector, component string, parts []int, band Band) domain.Ordinal {
	if len(parts) == 0 {
		c.add(domain.IssueEmpty, component, "")
		return domain.Ordinal{}
	}
	sum := 0
	for _, p := range parts {
		sum += p
	}
	return domain.NewOrdinal(band.Apply(float64(sum)))
}

// efficiency is hours asleep over time in bed, rounded to 1e-6 so ratios such as
// 5.85/9 band as exactly 0.65.
func efficiency(hours float64, inBed time.Duration) float64 {
	return math.Round(hours/inBed.Hours()*1e6) / 1e6
}
