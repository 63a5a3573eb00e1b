// Package tabular provides the structured result type produced by candidate
// parsers: an ordered set of rows under a declared column set. Cells are kept
// as strings; numeric interpretation is the validator's concern.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is an ordered, rectangular collection of string cells. The first CSV
// record is the header; every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
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

// Cell returns the value at the given row and column name. The second return
// is false when the row or column does not exist.
func (t *Table) Cell(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	col := t.ColumnIndex(column)
	if col < 0 {
		return "", false
	}
	return t.Rows[row][col], true
}

// FromCSV reads a table from CSV input. The first record is taken as the
// header; all records must have the same field count.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv input")
	}

	t := &Table{Columns: records[0]}
	if len(records) > 1 {
		t.Rows = records[1:]
	}
	return t, nil
}

// FromCSVString is a convenience wrapper over FromCSV for in-memory input.
func FromCSVString(s string) (*Table, error) {
	return FromCSV(strings.NewReader(s))
}

// WriteCSV serializes the table as CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
