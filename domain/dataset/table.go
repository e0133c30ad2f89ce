package dataset

import (
	"strconv"
	"strings"
)

// Table is an ordered collection of named columns over string cells.
// The empty string (and the NA markers below) represent a missing value;
// typing is decided per column, not per cell.
type Table struct {
	Columns []string
	Rows    [][]string
}

// IsMissing reports whether a cell holds no usable value.
func IsMissing(cell string) bool {
	v := strings.TrimSpace(cell)
	return v == "" || v == "NA" || v == "NaN"
}

// ParseNumeric parses a cell as float64.
func ParseNumeric(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns the cells of the named column, or nil if absent.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col
}

// Select returns a new table containing the given rows, in the given order.
// The column backing arrays are shared; callers must not mutate cells.
func (t *Table) Select(rowIndices []int) *Table {
	rows := make([][]string, len(rowIndices))
	for i, idx := range rowIndices {
		rows[i] = t.Rows[idx]
	}
	return &Table{Columns: t.Columns, Rows: rows}
}
