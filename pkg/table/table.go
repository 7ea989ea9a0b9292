// Package table provides the rectangular string table every pmfscale stage
// reads and writes. Column order is preserved and column lookup by name is
// constant time.
package table

import (
	"fmt"
	"strings"
)

// Table is a named, rectangular table of string cells.
// Every row has exactly len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates a table with the given header. Blank header names are
// replaced by "Unnamed: N" and the index reflects the first occurrence of a
// duplicated name.
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: make([]string, len(columns)),
	}
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			c = fmt.Sprintf("Unnamed: %d", i)
		}
		t.Columns[i] = c
	}
	t.reindex()
	return t
}

// FromRecords builds a table from raw records where the first record is the
// header. Every record becomes a row, blank ones included, so row indices
// match the source; short rows are padded and long rows truncated to the
// header width.
func FromRecords(name string, records [][]string) *Table {
	if len(records) == 0 {
		return New(name, nil)
	}
	t := New(name, records[0])
	for _, rec := range records[1:] {
		t.Append(rec)
	}
	return t
}

// Append adds a row, padding or truncating it to the table width.
func (t *Table) Append(row []string) {
	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(column string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Has reports whether the table has a column with exactly this name.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Value returns the cell at row r of the named column, or "" when the column
// does not exist.
func (t *Table) Value(r int, column string) string {
	i := t.Index(column)
	if i < 0 {
		return ""
	}
	return t.Rows[r][i]
}

// Set overwrites the cell at row r of the named column.
func (t *Table) Set(r int, column, value string) error {
	i := t.Index(column)
	if i < 0 {
		return fmt.Errorf("table %s has no column %q", t.Name, column)
	}
	t.Rows[r][i] = value
	return nil
}

// Rename changes a column name in place. Renaming onto an existing name is an error.
func (t *Table) Rename(from, to string) error {
	i := t.Index(from)
	if i < 0 {
		return fmt.Errorf("table %s has no column %q", t.Name, from)
	}
	if from == to {
		return nil
	}
	if t.Has(to) {
		return fmt.Errorf("table %s already has a column %q", t.Name, to)
	}
	t.Columns[i] = to
	t.reindex()
	return nil
}

// MapColumns rewrites every column name with fn, e.g. to trim or upper-case headers.
func (t *Table) MapColumns(fn func(string) string) {
	for i, c := range t.Columns {
		t.Columns[i] = fn(c)
	}
	t.reindex()
}

// Head returns a copy restricted to the first n columns.
func (t *Table) Head(n int) *Table {
	if n > len(t.Columns) {
		n = len(t.Columns)
	}
	out := New(t.Name, t.Columns[:n])
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out.Rows[r] = append([]string(nil), row[:n]...)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		out.Rows[r] = append([]string(nil), row...)
	}
	out.reindex()
	return out
}

// Records returns the header followed by every row, as written to CSV or a sheet.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Columns)
	records = append(records, t.Rows...)
	return records
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// IsBlank reports whether every cell of record is empty or whitespace.
func IsBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
