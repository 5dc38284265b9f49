package admin

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatCount formats an integer with thousand separators.
// Example: FormatCount(18248) returns "18,248".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatMoney formats an amount rounded to cents with thousand separators.
// Example: FormatMoney(1234.5) returns "1,234.50".
func FormatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	fixed := rounded.StringFixed(2)
	_, frac, _ := strings.Cut(fixed, ".")
	return sign + printer.Sprintf("%d", rounded.IntPart()) + "." + frac
}

// FormatPercent formats a percentage without trailing zeros, e.g. "12.5%".
func FormatPercent(d decimal.Decimal) string {
	return d.Round(2).String() + "%"
}
