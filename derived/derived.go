// Package derived stores attributes computed from records without touching
// the records themselves.
//
// Two kinds of derived fields exist: the integer code of a categorical
// hyperparameter ("metric*") and the histogram bin of any attribute
// ("perplexity#histogram").
package derived

import (
	"slices"
	"strings"

	"github.com/hupe1980/drometa/metadata"
)

const (
	encodedSuffix   = "*"
	histogramSuffix = "#histogram"
)

// EncodedField names the numeric representation of a categorical attribute.
func EncodedField(attr string) string { return attr + encodedSuffix }

// HistogramField names the binned representation of an attribute.
func HistogramField(attr string) string { return attr + histogramSuffix }

// IsEncodedField reports whether field names an encoded attribute and returns
// the attribute.
func IsEncodedField(field string) (string, bool) {
	return strings.CutSuffix(field, encodedSuffix)
}

// IsHistogramField reports whether field names a binned attribute and returns
// the attribute.
func IsHistogramField(field string) (string, bool) {
	return strings.CutSuffix(field, histogramSuffix)
}

// Table is a column store of derived values, one column per derived field
// and one cell per record row.
type Table struct {
	rows    int
	columns map[string][]metadata.Value
	order   []string
}

// NewTable creates an empty table for rows records.
func NewTable(rows int) *Table {
	return &Table{
		rows:    rows,
		columns: make(map[string][]metadata.Value),
	}
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Set stores v for field at row, creating the column on first use.
func (t *Table) Set(field string, row int, v metadata.Value) {
	col, ok := t.columns[field]
	if !ok {
		col = make([]metadata.Value, t.rows)
		t.columns[field] = col
		t.order = append(t.order, field)
	}
	col[row] = v
}

// Get returns the value of field at row.
func (t *Table) Get(field string, row int) (metadata.Value, bool) {
	col, ok := t.columns[field]
	if !ok || row < 0 || row >= t.rows {
		return metadata.Value{}, false
	}
	return col[row], true
}

// Column returns the values of field in row order. The slice must not be
// modified.
func (t *Table) Column(field string) ([]metadata.Value, bool) {
	col, ok := t.columns[field]
	return col, ok
}

// Has reports whether field exists.
func (t *Table) Has(field string) bool {
	_, ok := t.columns[field]
	return ok
}

// Fields returns the derived field names in creation order.
func (t *Table) Fields() []string { return slices.Clone(t.order) }
