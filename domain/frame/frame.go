package frame

import (
	"fmt"
	"math"
)

// Frame is an in-memory tabular dataset: an ordered set of named columns,
// each with a declared concrete dtype (e.g. "int64", "float64", "string",
// "datetime64[ns]", "bool"), and a sequence of rows mapping column name to
// value. A nil cell is a missing value.
type Frame struct {
	columns []string
	dtypes  map[string]string
	rows    []map[string]interface{}
}

// New creates an empty frame with the given column order and dtypes.
func New(columns []string, dtypes map[string]string) *Frame {
	d := make(map[string]string, len(dtypes))
	for k, v := range dtypes {
		d[k] = v
	}
	return &Frame{
		columns: append([]string(nil), columns...),
		dtypes:  d,
		rows:    []map[string]interface{}{},
	}
}

// FromRows builds a frame from pre-assembled rows.
func FromRows(columns []string, dtypes map[string]string, rows []map[string]interface{}) *Frame {
	f := New(columns, dtypes)
	f.rows = append(f.rows, rows...)
	return f
}

// AppendRow adds one row. Keys not in the column set are ignored on read.
func (f *Frame) AppendRow(row map[string]interface{}) {
	f.rows = append(f.rows, row)
}

// Columns returns the ordered column names.
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.columns...)
}

// ColumnSet returns the column names as a set.
func (f *Frame) ColumnSet() map[string]bool {
	if f == nil {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(f.columns))
	for _, c := range f.columns {
		set[c] = true
	}
	return set
}

// HasColumn reports whether the named column exists. A nil frame has no
// columns.
func (f *Frame) HasColumn(name string) bool {
	if f == nil {
		return false
	}
	for _, c := range f.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Dtype returns the declared dtype of a column, or "" if unknown.
func (f *Frame) Dtype(name string) string {
	if f == nil {
		return ""
	}
	return f.dtypes[name]
}

// RowCount returns the number of rows.
func (f *Frame) RowCount() int {
	if f == nil {
		return 0
	}
	return len(f.rows)
}

// IsEmpty reports whether the frame is nil or has no rows.
func (f *Frame) IsEmpty() bool {
	return f == nil || len(f.rows) == 0
}

// Column returns all values of a column in row order, nil for missing cells.
func (f *Frame) Column(name string) []interface{} {
	if f == nil {
		return nil
	}
	values := make([]interface{}, len(f.rows))
	for i, row := range f.rows {
		values[i] = row[name]
	}
	return values
}

// Float64Column extracts the numeric values of a column, skipping missing
// cells. It returns the non-missing values and the missing count; a cell
// counts as missing when it is nil, NaN, or not convertible to a number.
func (f *Frame) Float64Column(name string) ([]float64, int) {
	if f == nil {
		return nil, 0
	}
	values := make([]float64, 0, len(f.rows))
	missing := 0
	for _, row := range f.rows {
		v, ok := toFloat64(row[name])
		if !ok {
			missing++
			continue
		}
		values = append(values, v)
	}
	return values, missing
}

// SetColumn replaces a column's values in row order. Used on private copies
// when a validator normalizes values (e.g. timestamp parsing).
func (f *Frame) SetColumn(name string, values []interface{}) error {
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %s: got %d values for %d rows", name, len(values), len(f.rows))
	}
	for i := range f.rows {
		f.rows[i][name] = values[i]
	}
	return nil
}

// Copy returns a deep copy of the frame. Row maps are duplicated so the
// copy can be mutated without touching the original.
func (f *Frame) Copy() *Frame {
	rows := make([]map[string]interface{}, len(f.rows))
	for i, row := range f.rows {
		dup := make(map[string]interface{}, len(row))
		for k, v := range row {
			dup[k] = v
		}
		rows[i] = dup
	}
	return FromRows(f.columns, f.dtypes, rows)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		if math.IsNaN(float64(n)) {
			return 0, false
		}
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
