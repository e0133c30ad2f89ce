package dataset

import "strings"

// rowKeySep is unlikely to occur inside a cell; duplicate detection joins on it.
const rowKeySep = "\x1f"

// DropDuplicates returns a table with exact-duplicate rows removed,
// keeping the first occurrence.
func (t *Table) DropDuplicates() *Table {
	seen := make(map[string]struct{}, len(t.Rows))
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := strings.Join(row, rowKeySep)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return &Table{Columns: t.Columns, Rows: rows}
}

// DropMissingIn returns a table without the rows where the named column is missing.
func (t *Table) DropMissingIn(column string) *Table {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return &Table{Columns: t.Columns, Rows: t.Rows}
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if IsMissing(row[idx]) {
			continue
		}
		rows = append(rows, row)
	}
	return &Table{Columns: t.Columns, Rows: rows}
}
