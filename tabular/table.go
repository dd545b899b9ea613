// Package tabular reads delimiter- and encoding-ambiguous tabular corpus
// files into string tables and normalizes list-encoded cell values.
//
// Loading is a pure transformation: no file is ever written, and data
// problems (odd encodings, ragged rows, unparseable cells) degrade to safe
// defaults instead of failing the load.
package tabular

import (
	"fmt"

	"github.com/c360studio/folkgraph/identity"
)

// Row is one record keyed by column name. Missing cells read as "".
type Row map[string]string

// Get returns the whitespace-cleaned value of a column.
func (r Row) Get(col string) string {
	return identity.CleanWS(r[col])
}

// Table is an in-memory tabular file: ordered columns and rows.
type Table struct {
	Path    string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries a column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Require fails with an enumerated error on the first missing column.
// Called before any graph node is built.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("missing required column: %s", c)
		}
	}
	return nil
}

// Filter returns a table containing the rows the predicate keeps,
// preserving order. Columns are shared, rows are not copied.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Path: t.Path, Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Limit caps the table at the first n rows. Zero or negative means no cap.
func (t *Table) Limit(n int) *Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	return &Table{Path: t.Path, Columns: t.Columns, Rows: t.Rows[:n]}
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}
