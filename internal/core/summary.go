package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category label.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
	// Percent is this category's share of the chart, 0-100.
	Percent decimal.Decimal
}

// Summary is what the renderer shows under the expense table.
type Summary struct {
	TotalSpent decimal.Decimal
	Remaining  decimal.Decimal
	Breakdown  []CategoryAmount
	// Rows is the number of loaded data rows.
	Rows int
}

// HasChart reports whether a category chart should be drawn.
func (s Summary) HasChart() bool {
	return s.Rows > 0
}

var hundred = decimal.NewFromInt(100)

// Summarize computes the totals for a loaded table against a monthly budget.
//
// Categories are grouped by their literal label, so rows written outside the
// form keep their own group. Groups are ordered by amount descending, ties by
// label. Percentages are shares of the positive category totals, which is
// what a pie can draw; with ordinary non-negative data that equals the share
// of TotalSpent.
func Summarize(t Table, budget decimal.Decimal) Summary {
	amounts := NormalizeAmounts(t)

	total := decimal.Zero
	byCat := map[string]decimal.Decimal{}
	for i, amt := range amounts {
		total = total.Add(amt)
		name := t.Value(i, ColumnCategory)
		byCat[name] = byCat[name].Add(amt)
	}

	list := make([]CategoryAmount, 0, len(byCat))
	positive := decimal.Zero
	for name, amt := range byCat {
		list = append(list, CategoryAmount{Name: name, Amount: amt})
		if amt.IsPositive() {
			positive = positive.Add(amt)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Amount.Cmp(list[j].Amount); c != 0 {
			return c > 0
		}
		return list[i].Name < list[j].Name
	})
	for i := range list {
		list[i].Percent = decimal.Zero
		if positive.IsPositive() && list[i].Amount.IsPositive() {
			list[i].Percent = list[i].Amount.Mul(hundred).Div(positive)
		}
	}

	return Summary{
		TotalSpent: total,
		Remaining:  budget.Sub(total),
		Breakdown:  list,
		Rows:       len(t.Rows),
	}
}
