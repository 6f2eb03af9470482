package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter renders amounts as symbol + grouped integer part + two
// decimals, e.g. ₹15,000.00 and -₹1,250.50. The integer digits are grouped
// as strings so amounts of any size keep every digit.
type moneyFormatter struct {
	symbol string
	sep    string
}

func newMoneyFormatter(symbol string) moneyFormatter {
	return moneyFormatter{symbol: symbol, sep: groupSeparator(language.English)}
}

// groupSeparator asks the locale printer how it separates thousands.
func groupSeparator(tag language.Tag) string {
	grouped := message.NewPrinter(tag).Sprintf("%d", 1000)
	return strings.TrimSuffix(strings.TrimPrefix(grouped, "1"), "000")
}

func (m moneyFormatter) Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	s := m.symbol + groupDigits(whole, m.sep) + "." + frac
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatPercent renders a 0-100 share with one decimal.
func formatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// sanitizeInput removes control characters (except tab, newline and carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
