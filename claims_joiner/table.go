package main

import (
	"strconv"
	"strings"
)

// Table is an in-memory tabular snapshot: ordered column names plus
// row-major cells. The empty string is the null representation. Synthea
// exports write missing values as empty CSV cells, and every stage here
// (aggregation, join misses, output writers) treats "" the same way.
//
// Tables are immutable by convention: every transform returns a new Table
// and never mutates cells of its input. Renames share the underlying rows
// since only the header changes.
type Table struct {
	cols   []string
	colIdx map[string]int
	rows   [][]string
}

// NewTable builds a Table from a header and rows. Rows shorter than the
// header are padded with blanks; longer rows are truncated.
func NewTable(cols []string, rows [][]string) *Table {
	t := &Table{
		cols:   cols,
		colIdx: make(map[string]int, len(cols)),
		rows:   rows,
	}
	for i, c := range cols {
		t.colIdx[c] = i
	}
	for i, row := range rows {
		if len(row) < len(cols) {
			padded := make([]string, len(cols))
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > len(cols) {
			rows[i] = row[:len(cols)]
		}
	}
	return t
}

// Columns returns the column names in order. Callers must not modify it.
func (t *Table) Columns() []string { return t.cols }

func (t *Table) NumRows() int { return len(t.rows) }

func (t *Table) NumCols() int { return len(t.cols) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.colIdx[name]; ok {
		return i
	}
	return -1
}

// Cell returns the value at (row, column name); "" if the column is absent.
func (t *Table) Cell(row int, name string) string {
	i, ok := t.colIdx[name]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// Row returns the raw cells of one row. Callers must not modify it.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Rename returns a Table with columns renamed per the mapping. Names not in
// the mapping are kept. Rows are shared with the receiver.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := make([]string, len(t.cols))
	for i, c := range t.cols {
		if n, ok := mapping[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	return NewTable(cols, t.rows)
}

// DropColumns returns a Table without the named columns. Unknown names are
// ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	keep := make([]int, 0, len(t.cols))
	cols := make([]string, 0, len(t.cols))
	for i, c := range t.cols {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	if len(keep) == len(t.cols) {
		return t
	}

	rows := make([][]string, len(t.rows))
	for ri, row := range t.rows {
		out := make([]string, len(keep))
		for oi, ci := range keep {
			out[oi] = row[ci]
		}
		rows[ri] = out
	}
	return NewTable(cols, rows)
}

// columnType is the inferred storage type of a column, decided at the
// output boundary (Parquet schema, report). Cells stay strings internally.
type columnType int

const (
	typeString columnType = iota
	typeInt64
	typeDouble
)

func (ct columnType) String() string {
	switch ct {
	case typeInt64:
		return "int64"
	case typeDouble:
		return "double"
	default:
		return "string"
	}
}

// inferColumnType classifies a column: int64 if every non-blank cell parses
// as a 64-bit integer, double if every non-blank cell parses as a float,
// string otherwise (including all-blank columns).
func (t *Table) inferColumnType(name string) columnType {
	ci, ok := t.colIdx[name]
	if !ok {
		return typeString
	}

	sawValue := false
	allInt := true
	allFloat := true
	for _, row := range t.rows {
		v := strings.TrimSpace(row[ci])
		if v == "" {
			continue
		}
		sawValue = true
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return typeString
		}
	}
	if !sawValue {
		return typeString
	}
	if allInt {
		return typeInt64
	}
	if allFloat {
		return typeDouble
	}
	return typeString
}

// requireColumns verifies the named columns exist, returning a
// SchemaMismatchError naming the first absentee otherwise.
func (t *Table) requireColumns(table string, names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return &SchemaMismatchError{Table: table, Column: n}
		}
	}
	return nil
}

// approxBytes estimates the in-memory payload of the table: cell bytes plus
// one delimiter per cell. Used only for the final report.
func (t *Table) approxBytes() int64 {
	var n int64
	for _, row := range t.rows {
		for _, c := range row {
			n += int64(len(c)) + 1
		}
	}
	return n
}
