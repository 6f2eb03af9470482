package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		// Append adds one row after the last row of the worksheet.
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseLister loads the worksheet contents.
	ExpenseLister interface {
		// ListExpenses returns every data row as stored, under the sheet's header.
		ListExpenses(ctx context.Context) (core.Table, error)
	}

	// Worksheet is the single sheet the app reads and writes.
	Worksheet interface {
		ExpenseWriter
		ExpenseLister
	}
)
