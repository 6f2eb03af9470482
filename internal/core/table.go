package core

import "github.com/shopspring/decimal"

// Column labels of the worksheet header row.
const (
	ColumnDate        = "Date"
	ColumnCategory    = "Category"
	ColumnDescription = "Description"
	ColumnAmount      = "Amount"
)

// Columns is the expected header of the worksheet.
var Columns = []string{ColumnDate, ColumnCategory, ColumnDescription, ColumnAmount}

// Table holds the worksheet contents as loaded: a header and the raw cell text
// of every data row, each row aligned to Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// EmptyTable returns a table with the expected header and no rows.
func EmptyTable() Table {
	return Table{Columns: append([]string(nil), Columns...)}
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Index returns the position of column name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of row i under column name, or "" when absent.
func (t Table) Value(i int, name string) string {
	col := t.Index(name)
	if col < 0 || i < 0 || i >= len(t.Rows) || col >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][col]
}

// NormalizeAmounts returns the numeric Amount of every row. Unparseable cells
// and a missing Amount column both yield zeros; the result always has one
// entry per row.
func NormalizeAmounts(t Table) []decimal.Decimal {
	out := make([]decimal.Decimal, len(t.Rows))
	for i := range t.Rows {
		out[i] = NormalizeAmount(t.Value(i, ColumnAmount))
	}
	return out
}
