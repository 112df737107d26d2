package report

import "fmt"

// ColumnSource gives access to a dataset's columns by name.
type ColumnSource interface {
	Column(name string) ([]string, error)
}

// Section is the description of one column: a histogram and summary for numeric columns,
// value counts otherwise.
type Section struct {
	Column  string  `json:"column"`
	Numeric bool    `json:"numeric"`
	Summary Summary `json:"summary"`
	Bins    []Bin   `json:"bins,omitempty"`
	// Density is the kernel density estimate at each bin centre.
	Density []float64 `json:"density,omitempty"`
	Counts  []Count   `json:"counts,omitempty"`
	// NA is the placeholder category drawn in grey.
	NA string `json:"-"`
}

// Describe builds a section for each requested column. A column with only blank cells is
// reported as numeric with N == 0.
func Describe(src ColumnSource, columns []string, na string) ([]Section, error) {
	sections := make([]Section, 0, len(columns))
	for _, col := range columns {
		values, err := src.Column(col)
		if err != nil {
			return nil, fmt.Errorf("describe %q: %w", col, err)
		}

		s := Section{Column: col, NA: na}
		if nums, ok := Numeric(values); ok {
			s.Numeric = true
			s.Summary = Summarize(col, nums)
			s.Bins = Histogram(nums, FreedmanDiaconis(nums))
			s.Density = KDE(nums, Midpoints(s.Bins))
		} else {
			s.Counts = ValueCounts(values)
		}
		sections = append(sections, s)
	}
	return sections, nil
}
