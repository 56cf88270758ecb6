package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Row maps column names to cell values. A row need not define every
// column of its table; a missing column reads as null.
type Row map[string]JSONValue

// Table is the flat view of one document: ordered column names plus
// rows in source order.
type Table struct {
	Columns []string
	Rows    []Row

	seen map[string]struct{}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{seen: make(map[string]struct{})}
}

// AddColumn registers a column name the first time it is seen. Later
// calls with the same name keep the original position, so column order
// is first-appearance order across all rows.
func (t *Table) AddColumn(name string) {
	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}
	if _, ok := t.seen[name]; ok {
		return
	}
	t.seen[name] = struct{}{}
	t.Columns = append(t.Columns, name)
}

// HasColumn reports whether a column has been registered.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.seen[name]
	return ok
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Empty reports whether the table holds no data: either no rows, or
// rows without a single column (e.g. flattening `{}`).
func (t *Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}

// RowStrings renders row i as text cells in column order. Every row
// reads out exactly one cell per declared column.
func (t *Table) RowStrings(i int) []string {
	cells := make([]string, len(t.Columns))
	for j, name := range t.Columns {
		cells[j] = CellString(t.Rows[i][name])
	}
	return cells
}

// CellString renders a single cell as text. Nulls become the empty
// string, numbers keep their source form, strings pass through
// unchanged.
func CellString(v JSONValue) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
