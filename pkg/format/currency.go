// Package format renders currency amounts and durations for display.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol is used by Currency.
const DefaultCurrencySymbol = "$"

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return CurrencyWithSymbol(DefaultCurrencySymbol, amount)
}

// CurrencyWithSymbol is Currency with a caller-chosen symbol (e.g., "₹1,234.56").
func CurrencyWithSymbol(symbol string, amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// formatPositiveCurrency renders value with two decimals and English digit
// grouping.
func formatPositiveCurrency(value float64) string {
	return printer.Sprintf("%.2f", value)
}

// Months converts a month count into a readable duration such as
// "5 years, 3 months", "1 year" or "8 months".
func Months(months int) string {
	if months <= 0 {
		return "0 months"
	}

	years := months / 12
	remaining := months % 12

	switch {
	case years == 0:
		return plural(remaining, "month")
	case remaining == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + ", " + plural(remaining, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
