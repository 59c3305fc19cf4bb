// Package table holds the in-memory tabular model the dashboard works on. Cells are
// kept as strings exactly as ingested; typed views (dates, numbers) are parsed on
// demand so that one bad cell never poisons a whole column.
package table

import (
	"sort"
	"strings"
)

// Table is an ordered set of named columns over string rows.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
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

// Cell returns the trimmed value at (row, column name), or "" when the column is
// missing or the row is ragged.
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][idx])
}

// SetCell writes a value at (row, column name), extending the row if it is ragged.
// Missing columns are ignored.
func (t *Table) SetCell(row int, name, value string) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	for len(t.Rows[row]) <= idx {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][idx] = value
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// EnsureColumn appends an empty column if it does not exist and returns its index.
func (t *Table) EnsureColumn(name string) int {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return idx
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1
}

// Rename renames columns according to the old->new map. Unlisted columns keep
// their names.
func (t *Table) Rename(names map[string]string) {
	for i, c := range t.Columns {
		if n, ok := names[c]; ok && n != "" {
			t.Columns[i] = n
		}
	}
}

// Column returns the trimmed values of the named column, or nil when missing.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = strings.TrimSpace(row[idx])
		}
	}
	return values
}

// DistinctValues returns the sorted distinct non-empty values of the named column.
func (t *Table) DistinctValues(name string) []string {
	seen := map[string]struct{}{}
	var values []string
	for _, v := range t.Column(name) {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Filter returns a new table containing the rows for which keep returns true.
// The column slice is shared; rows are not copied.
func (t *Table) Filter(keep func(row int) bool) *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: t.Columns}
	for i := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
