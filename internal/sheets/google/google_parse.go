package google

import (
	"fmt"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// expenseRow is the positional row written for e.
func expenseRow(e core.Expense) []any {
	return []any{e.Date.ISO(), e.Category, e.Description, core.Float(e.Amount)}
}

// toTable converts a values matrix (as returned by Sheets API) into a table
// keyed by the first row. A sheet without data rows becomes the empty table
// with the default header. Blank rows inside the data keep their place; blank
// rows after the last filled one are not data. Short rows are padded and cells
// past the header are dropped.
func toTable(values [][]any) core.Table {
	for len(values) > 1 && blank(toStrings(values[len(values)-1])) {
		values = values[:len(values)-1]
	}
	if len(values) < 2 {
		return core.EmptyTable()
	}
	header := toStrings(values[0])
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		header = append([]string(nil), core.Columns...)
	}

	t := core.Table{Columns: header}
	for _, raw := range values[1:] {
		cells := toStrings(raw)
		row := make([]string, len(header))
		copy(row, cells)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(cellString(v))
	}
	return out
}

// cellString renders an unformatted cell value without losing digits.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(val)
	}
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
