// Package http provides HTTP server and handler implementations.
//
// This file holds the parsing of the expense form and the budget parameter.

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Form field names.
const (
	fieldDate        = "date"
	fieldCategory    = "category"
	fieldDescription = "description"
	fieldAmount      = "amount"
	fieldBudget      = "budget"
)

const maxDescriptionLen = 200

// FormError reports a rejected form field.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseExpenseForm builds an expense from submitted form values. A missing
// date means today.
func ParseExpenseForm(form url.Values, today core.Date) (core.Expense, error) {
	date := today
	if v := strings.TrimSpace(form.Get(fieldDate)); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, &FormError{Field: fieldDate, Message: "Invalid date, use YYYY-MM-DD"}
		}
		date = d
	}

	category := sanitizeInput(form.Get(fieldCategory))
	if !core.IsCategory(category) {
		return core.Expense{}, &FormError{Field: fieldCategory, Message: "Choose a category from the list"}
	}

	description := sanitizeInput(form.Get(fieldDescription))
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return core.Expense{}, &FormError{Field: fieldDescription, Message: fmt.Sprintf("Description is limited to %d characters", maxDescriptionLen)}
	}

	raw := strings.TrimSpace(form.Get(fieldAmount))
	if raw == "" {
		return core.Expense{}, &FormError{Field: fieldAmount, Message: "Amount is required"}
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return core.Expense{}, &FormError{Field: fieldAmount, Message: "Amount must be a number of at least 0"}
	}

	e := core.Expense{
		Date:        date,
		Category:    category,
		Description: description,
		Amount:      amount,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, &FormError{Field: "expense", Message: err.Error()}
	}
	return e, nil
}

// ParseBudget reads the budget parameter, falling back to def when it is
// absent, not a number or negative.
func ParseBudget(values url.Values, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(values.Get(fieldBudget))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}

// formErrorMessage returns the user-facing text for a parse failure.
func formErrorMessage(err error) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "Invalid form data"
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET accepts GET and HEAD.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed request")
	}
	return nil
}
