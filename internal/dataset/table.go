package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"questionnaire-reader/internal/domain"
)

// Table is an in-memory CSV export. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
	// IDColumn is the column identifying respondents, -1 when rows are numbered.
	IDColumn int
	// overflow counts, per row, the fields a record had beyond the header. Those rows were
	// cut to the header width and their cells may be shifted.
	overflow map[int]int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses a CSV export and applies the layout's header names and index column.
func Read(r io.Reader, l Layout) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyDataset
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(l.Names) > 0 {
		if len(l.Names) != len(header) {
			return nil, fmt.Errorf("%w: names has %d entries, file has %d columns", ErrInvalidLayout, len(l.Names), len(header))
		}
		header = append([]string(nil), l.Names...)
	}

	rows := make([][]string, 0, len(records)-1)
	overflow := make(map[int]int)
	for _, rec := range records[1:] {
		if isEmptyRecord(rec) {
			continue
		}
		if n := len(rec) - len(header); n > 0 {
			overflow[len(rows)] = n
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	t := &Table{Header: header, Rows: rows, IDColumn: -1, overflow: overflow}
	if l.IndexColumn != "" {
		idx := t.ColumnIndex(l.IndexColumn)
		if idx < 0 {
			return nil, fmt.Errorf("%w: index column %q", ErrColumnNotFound, l.IndexColumn)
		}
		t.IDColumn = idx
	}
	return t, nil
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// RowID identifies row i by its index column or, failing that, its 1-based position.
func (t *Table) RowID(i int) string {
	if t.IDColumn >= 0 {
		if id := strings.TrimSpace(t.Rows[i][t.IDColumn]); id != "" {
			return id
		}
	}
	return strconv.Itoa(i + 1)
}

// ExtraFields is the number of fields row i had beyond the header, 0 for well-formed rows.
func (t *Table) ExtraFields(i int) int {
	return t.overflow[i]
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) addColumn(name string, values []string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
}

// drop removes the given column positions, keeping IDColumn pointing at the same column.
func (t *Table) drop(cols []int) {
	if len(cols) == 0 {
		return
	}
	skip := make(map[int]bool, len(cols))
	for _, c := range cols {
		skip[c] = true
	}
	keep := func(cells []string) []string {
		out := make([]string, 0, len(cells)-len(skip))
		for i, v := range cells {
			if !skip[i] {
				out = append(out, v)
			}
		}
		return out
	}

	if t.IDColumn >= 0 {
		if skip[t.IDColumn] {
			t.IDColumn = -1
		} else {
			shift := 0
			for c := range skip {
				if c < t.IDColumn {
					shift++
				}
			}
			t.IDColumn -= shift
		}
	}
	t.Header = keep(t.Header)
	for i, row := range t.Rows {
		t.Rows[i] = keep(row)
	}
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Header:   append([]string(nil), t.Header...),
		Rows:     make([][]string, len(t.Rows)),
		IDColumn: t.IDColumn,
		overflow: make(map[int]int, len(t.overflow)),
	}
	for i, n := range t.overflow {
		out.overflow[i] = n
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Stitch returns a copy of t without the raw item columns of sel and with the scored
// columns appended in output order. scores[i] belongs to row i.
func (t *Table) Stitch(sel Selection, scores []domain.RespondentScores, scoredColumns []string) (*Table, error) {
	if len(scores) != len(t.Rows) {
		return nil, fmt.Errorf("stitch: %d scores for %d rows", len(scores), len(t.Rows))
	}
	out := t.Clone()
	out.drop(sel.Columns())

	cells := make([]map[string]string, len(scores))
	for i, s := range scores {
		cells[i] = s.Cells()
	}
	for _, col := range scoredColumns {
		values := make([]string, len(scores))
		for i := range scores {
			values[i] = cells[i][col]
		}
		out.addColumn(col, values)
	}
	return out, nil
}

// WriteCSV writes the header and rows.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
