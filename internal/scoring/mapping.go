// Package scoring implements the BFI, PSQI and SHS questionnaire scoring rules.
//
// Every scorer is a pure function over one respondent's response vector. Label tables,
// item partitions and reversed-item sets are package-level data and are never mutated.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"questionnaire-reader/internal/domain"
)

// LabelMap translates the fixed response labels of one scale to ordinal values.
// Numeric strings inside [min, max] are accepted as already mapped.
type LabelMap struct {
	values   map[string]int
	min, max int
}

// newLabelMap assigns min, min+1, ... to labels in the order given.
func newLabelMap(min int, labels ...string) LabelMap {
	values := make(map[string]int, len(labels))
	for i, label := range labels {
		values[normalizeLabel(label)] = min + i
	}
	return LabelMap{values: values, min: min, max: min + len(labels) - 1}
}

// Lookup returns the ordinal for raw. ok is false when raw is blank (missing) or
// not part of the scale (unmapped); missing reports which one.
func (m LabelMap) Lookup(raw string) (value int, ok bool, missing bool) {
	label := normalizeLabel(raw)
	if isBlank(label) {
		return 0, false, true
	}
	if v, found := m.values[label]; found {
		return v, true, false
	}
	if n, err := parseNumber(label); err == nil && n == math.Trunc(n) {
		if v := int(n); v >= m.min && v <= m.max {
			return v, true, false
		}
	}
	return 0, false, false
}

// Len reports the number of labels on the scale.
func (m LabelMap) Len() int { return len(m.values) }

// bidiMarks are invisible direction controls that survey exports leave around Hebrew text.
var bidiMarks = strings.NewReplacer(
	"\u200e", "", "\u200f", "",
	"\u202a", "", "\u202b", "", "\u202c", "", "\u202d", "", "\u202e", "",
	"\u2066", "", "\u2067", "", "\u2068", "", "\u2069", "",
	"\ufeff", "",
)

func normalizeLabel(raw string) string {
	s := norm.NFC.String(bidiMarks.Replace(raw))
	return strings.Join(strings.Fields(s), " ")
}

// isBlank treats the usual spreadsheet placeholders for an empty cell as missing.
func isBlank(label string) bool {
	switch strings.ToLower(label) {
	case "", "nan", "n/a", "na", "none", "null":
		return true
	}
	return false
}

// parseNumber accepts plain decimals, with either '.' or ',' as decimal separator.
func parseNumber(label string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(label, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// collector accumulates per-field issues for one instrument of one respondent.
type collector struct {
	instrument string
	issues     []domain.Issue
}

func (c *collector) add(kind domain.IssueKind, item, value string) {
	c.issues = append(c.issues, domain.Issue{
		Instrument: c.instrument,
		Item:       item,
		Kind:       kind,
		Value:      value,
	})
}

// ordinal maps raw through m, recording an issue when it cannot be used.
func (c *collector) ordinal(item, raw string, m LabelMap) (int, bool) {
	v, ok, missing := m.Lookup(raw)
	switch {
	case ok:
		return v, true
	case missing:
		c.add(domain.IssueMissing, item, "")
	default:
		c.add(domain.IssueUnmapped, item, raw)
	}
	return 0, false
}

// number parses a non-negative measurement such as minutes or hours.
func (c *collector) number(item, raw string) (float64, bool) {
	label := normalizeLabel(raw)
	if isBlank(label) {
		c.add(domain.IssueMissing, item, "")
		return 0, false
	}
	v, err := parseNumber(label)
	if err != nil || v < 0 {
		c.add(domain.IssueUnmapped, item, raw)
		return 0, false
	}
	return v, true
}

// mean returns the arithmetic mean of values, or an undefined score when empty.
func mean(values []float64) domain.Score {
	if len(values) == 0 {
		return domain.Score{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return domain.NewScore(sum / float64(len(values)))
}
