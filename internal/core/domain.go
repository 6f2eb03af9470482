package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Categories is the closed set offered by the entry form, in display order.
// Rows loaded from the sheet may carry any label; see Summarize.
var Categories = []string{"Food", "Rent", "Travel", "Shopping", "Bills", "Entertainment", "Other"}

const isoDate = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Expense struct {
		Date        Date
		Category    string
		Description string // may be empty
		Amount      decimal.Decimal
	}
)

var (
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in its own location.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDate, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ISO returns the date as YYYY-MM-DD, the form written to the sheet.
func (d Date) ISO() string {
	return d.Format(isoDate)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// IsCategory reports whether s belongs to the entry form's enumeration.
func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !IsCategory(e.Category) {
		return ErrUnknownCategory
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
