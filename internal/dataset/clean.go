package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clean normalizes t in place before scoring: height units, categorical replacements,
// duplicate-column merges and the derived BMI column. Height and BMI are skipped when
// their source columns are absent from the export.
func Clean(t *Table, l Layout) error {
	fixHeight(t, l)
	if err := replaceValues(t, l); err != nil {
		return err
	}
	if err := mergeColumns(t, l); err != nil {
		return err
	}
	addBMI(t, l)
	return nil
}

// fixHeight converts heights reported in metres (below 3) to centimetres.
func fixHeight(t *Table, l Layout) {
	idx := t.ColumnIndex(l.ColumnName("height"))
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		v, ok := parseFloat(row[idx])
		if ok && v < 3 {
			row[idx] = formatFloat(v * 100)
		}
	}
}

func replaceValues(t *Table, l Layout) error {
	for col, table := range l.Replace {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			return fmt.Errorf("replace: %w: %q", ErrColumnNotFound, col)
		}
		accepted := make(map[string]bool, len(table))
		for _, clean := range table {
			accepted[clean] = true
		}
		for _, row := range t.Rows {
			v := strings.TrimSpace(row[idx])
			switch {
			case accepted[v]:
				row[idx] = v
			case table[v] != "":
				row[idx] = table[v]
			default:
				row[idx] = NAValue
			}
		}
	}
	return nil
}

func mergeColumns(t *Table, l Layout) error {
	for _, m := range l.Merge {
		into, from := t.ColumnIndex(m.Into), t.ColumnIndex(m.From)
		if into < 0 {
			return fmt.Errorf("merge: %w: %q", ErrColumnNotFound, m.Into)
		}
		if from < 0 {
			return fmt.Errorf("merge: %w: %q", ErrColumnNotFound, m.From)
		}
		for _, row := range t.Rows {
			if isBlankCell(row[into]) {
				row[into] = row[from]
			}
		}
		t.drop([]int{from})
	}
	return nil
}

// addBMI appends weight / (height in metres)^2, left blank when either value is unusable.
func addBMI(t *Table, l Layout) {
	if l.BMIColumn == "" || t.ColumnIndex(l.BMIColumn) >= 0 {
		return
	}
	w, h := t.ColumnIndex(l.ColumnName("weight")), t.ColumnIndex(l.ColumnName("height"))
	if w < 0 || h < 0 {
		return
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		weight, okW := parseFloat(row[w])
		height, okH := parseFloat(row[h])
		if !okW || !okH || height <= 0 {
			continue
		}
		metres := height / 100
		values[i] = strconv.FormatFloat(weight/(metres*metres), 'f', 2, 64)
	}
	t.addColumn(l.BMIColumn, values)
}

func isBlankCell(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "n/a":
		return true
	}
	return false
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatFloat(v float64) string {
	// rounding hides binary noise such as 1.7*100 = 170.00000000000003
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
