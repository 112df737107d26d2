// Package dataset loads questionnaire exports, cleans them and maps their columns to the
// response vectors expected by the scorers.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"questionnaire-reader/internal/domain"
	"questionnaire-reader/internal/scoring"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyDataset   = errors.New("dataset has no rows")
	ErrInvalidLayout  = errors.New("invalid layout")
)

// Layout describes how an export is cleaned and where each instrument's items live.
type Layout struct {
	// Names replaces the file header when set; it must have one entry per column.
	Names []string `yaml:"names,omitempty"`
	// IndexColumn identifies respondents; rows are numbered when empty.
	IndexColumn string `yaml:"index_column,omitempty"`
	// Columns maps logical keys (height, weight) to column names.
	Columns map[string]string `yaml:"columns,omitempty"`
	// Replace maps a column to its raw->clean value table. Unmatched values become N/A.
	Replace map[string]map[string]string `yaml:"replace,omitempty"`
	Merge   []Merge                      `yaml:"merge,omitempty"`
	// BMIColumn is the derived body mass index column; empty disables it.
	BMIColumn string `yaml:"bmi_column,omitempty"`

	Instruments []string   `yaml:"instruments"`
	BFI         BFILayout  `yaml:"bfi"`
	PSQI        PSQILayout `yaml:"psqi"`
	SHS         SHSLayout  `yaml:"shs"`
}

// Merge fills blank cells of Into from From and drops From.
type Merge struct {
	Into string `yaml:"into"`
	From string `yaml:"from"`
}

type BFILayout struct {
	Prefix string `yaml:"prefix"`
}

// PSQILayout selects the PSQI items by name prefix or, when Prefix is empty, by position.
// Offset counts data columns after the BFI items have been set aside.
type PSQILayout struct {
	Prefix string `yaml:"prefix,omitempty"`
	Offset int    `yaml:"offset"`
	Count  int    `yaml:"count"`
}

// SHSLayout lists the four SHS columns in item order; the last one is reverse keyed.
type SHSLayout struct {
	Columns []string `yaml:"columns"`
}

// NAValue replaces categorical values outside a column's replacement table.
const NAValue = "N/A"

// DefaultLayout matches the standard export of the questionnaire.
func DefaultLayout() Layout {
	return Layout{
		Columns: map[string]string{
			"height": "Height (cm)",
			"weight": "Weight (kg)",
		},
		BMIColumn:   "BMI",
		Instruments: []string{domain.InstrumentBFI, domain.InstrumentPSQI, domain.InstrumentSHS},
		BFI:         BFILayout{Prefix: "BFI"},
		PSQI:        PSQILayout{Offset: 36, Count: len(scoring.PSQIItems)},
		SHS:         SHSLayout{Columns: append([]string(nil), scoring.SHSItems...)},
	}
}

// LoadLayout reads a YAML layout file on top of DefaultLayout.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	if path == "" {
		return l, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the instrument sections against the scorers' item counts.
func (l Layout) Validate() error {
	for _, inst := range l.Instruments {
		switch inst {
		case domain.InstrumentBFI:
			if l.BFI.Prefix == "" {
				return fmt.Errorf("%w: bfi.prefix is required", ErrInvalidLayout)
			}
		case domain.InstrumentPSQI:
			if l.PSQI.Prefix == "" && (l.PSQI.Offset < 0 || l.PSQI.Count != len(scoring.PSQIItems)) {
				return fmt.Errorf("%w: psqi needs a prefix or offset >= 0 and count %d", ErrInvalidLayout, len(scoring.PSQIItems))
			}
		case domain.InstrumentSHS:
			if len(l.SHS.Columns) != scoring.SHSItemCount {
				return fmt.Errorf("%w: shs.columns needs %d entries", ErrInvalidLayout, scoring.SHSItemCount)
			}
		default:
			return fmt.Errorf("%w: unknown instrument %q", ErrInvalidLayout, inst)
		}
	}
	for _, m := range l.Merge {
		if m.Into == "" || m.From == "" {
			return fmt.Errorf("%w: merge needs into and from", ErrInvalidLayout)
		}
	}
	return nil
}

// Enabled reports whether instrument is scored.
func (l Layout) Enabled(instrument string) bool {
	for _, inst := range l.Instruments {
		if inst == instrument {
			return true
		}
	}
	return false
}

// ScoredColumns lists the output columns of the enabled instruments, in output order.
func (l Layout) ScoredColumns() []string {
	var cols []string
	if l.Enabled(domain.InstrumentBFI) {
		for _, t := range domain.Traits {
			cols = append(cols, string(t))
		}
	}
	if l.Enabled(domain.InstrumentPSQI) {
		cols = append(cols, domain.PSQIComponents...)
		cols = append(cols, domain.PSQIGlobal)
	}
	if l.Enabled(domain.InstrumentSHS) {
		cols = append(cols, domain.SHSColumn)
	}
	return cols
}

var titleCaser = cases.Title(language.English)

// ColumnName resolves a logical key to its column, defaulting to the title-cased key
// ("body_weight" -> "Body Weight").
func (l Layout) ColumnName(key string) string {
	if name, ok := l.Columns[key]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// YAML renders the layout as a layout file.
func (l Layout) YAML() ([]byte, error) {
	return yaml.Marshal(l)
}
