package dataset

import (
	"fmt"
	"sort"
	"strings"

	"questionnaire-reader/internal/domain"
	"questionnaire-reader/internal/scoring"
)

// Selection holds the column positions of each instrument's items, in item order.
// A nil slice means the instrument is not scored.
type Selection struct {
	BFI  []int
	PSQI []int
	SHS  []int
}

// Columns returns every selected position in ascending order.
func (s Selection) Columns() []int {
	cols := make([]int, 0, len(s.BFI)+len(s.PSQI)+len(s.SHS))
	cols = append(cols, s.BFI...)
	cols = append(cols, s.PSQI...)
	cols = append(cols, s.SHS...)
	sort.Ints(cols)
	return cols
}

// Select locates the item columns of every enabled instrument.
func Select(t *Table, l Layout) (Selection, error) {
	var sel Selection

	if l.Enabled(domain.InstrumentBFI) {
		sel.BFI = prefixed(t, l.BFI.Prefix)
		if len(sel.BFI) != scoring.BFIItemCount {
			return Selection{}, fmt.Errorf("%w: found %d columns with prefix %q, want %d",
				ErrColumnNotFound, len(sel.BFI), l.BFI.Prefix, scoring.BFIItemCount)
		}
	}

	if l.Enabled(domain.InstrumentPSQI) {
		cols, err := selectPSQI(t, l.PSQI, sel.BFI)
		if err != nil {
			return Selection{}, err
		}
		sel.PSQI = cols
	}

	if l.Enabled(domain.InstrumentSHS) {
		for _, name := range l.SHS.Columns {
			idx := t.ColumnIndex(name)
			if idx < 0 {
				return Selection{}, fmt.Errorf("%w: shs column %q", ErrColumnNotFound, name)
			}
			sel.SHS = append(sel.SHS, idx)
		}
	}
	return sel, nil
}

func prefixed(t *Table, prefix string) []int {
	var cols []int
	for i, h := range t.Header {
		if i != t.IDColumn && strings.HasPrefix(h, prefix) {
			cols = append(cols, i)
		}
	}
	return cols
}

// selectPSQI takes the items by prefix or, without one, as the Count data columns starting
// at Offset once the index column and the BFI items are set aside.
func selectPSQI(t *Table, l PSQILayout, bfi []int) ([]int, error) {
	want := len(scoring.PSQIItems)
	if l.Prefix != "" {
		cols := prefixed(t, l.Prefix)
		if len(cols) != want {
			return nil, fmt.Errorf("%w: found %d columns with prefix %q, want %d", ErrColumnNotFound, len(cols), l.Prefix, want)
		}
		return cols, nil
	}

	excluded := make(map[int]bool, len(bfi)+1)
	for _, c := range bfi {
		excluded[c] = true
	}
	excluded[t.IDColumn] = true

	data := make([]int, 0, len(t.Header))
	for i := range t.Header {
		if !excluded[i] {
			data = append(data, i)
		}
	}
	if l.Offset+l.Count > len(data) {
		return nil, fmt.Errorf("%w: psqi needs data columns %d..%d, export has %d",
			ErrColumnNotFound, l.Offset, l.Offset+l.Count-1, len(data))
	}
	return append([]int(nil), data[l.Offset:l.Offset+l.Count]...), nil
}

// Respondent carries one row's raw responses per instrument.
type Respondent struct {
	ID   string
	Row  int
	BFI  []string
	PSQI map[string]string
	SHS  []string
	// ExtraFields > 0 means the record was longer than the header and its cells cannot be
	// trusted.
	ExtraFields int
}

// Respondents extracts the response vectors of every row.
func Respondents(t *Table, sel Selection) []Respondent {
	out := make([]Respondent, len(t.Rows))
	for i, row := range t.Rows {
		r := Respondent{ID: t.RowID(i), Row: i, ExtraFields: t.ExtraFields(i)}
		if sel.BFI != nil {
			r.BFI = pick(row, sel.BFI)
		}
		if sel.PSQI != nil {
			r.PSQI = make(map[string]string, len(sel.PSQI))
			for j, c := range sel.PSQI {
				r.PSQI[scoring.PSQIItems[j]] = row[c]
			}
		}
		if sel.SHS != nil {
			r.SHS = pick(row, sel.SHS)
		}
		out[i] = r
	}
	return out
}

func pick(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = row[c]
	}
	return out
}
