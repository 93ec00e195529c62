// Package format renders numbers for human-readable output.
package format

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount < 0 {
		return "-$" + NumericCurrency(-amount)
	}
	return "$" + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "1,234.56").
func NumericCurrency(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(2).InexactFloat64()
	return printer.Sprintf("%.2f", rounded)
}

// Price returns a token price. Prices below one dollar keep their significant
// digits instead of rounding to cents (e.g., "$0.0015").
func Price(amount float64) string {
	if math.Abs(amount) >= 1 || amount == 0 {
		return Currency(amount)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + "$" + decimal.NewFromFloat(math.Abs(amount)).String()
}

// Tokens returns a whole token count with thousands separators.
func Tokens(amount float64) string {
	return printer.Sprintf("%d", int64(math.Round(amount)))
}

// Percent returns a percentage with one decimal place (e.g., "4.5%").
func Percent(value float64) string {
	return printer.Sprintf("%.1f%%", value)
}

// Ratio returns a multiple such as "22.2x", or "n/a" when nothing circulates.
func Ratio(value float64) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return "n/a"
	}
	return printer.Sprintf("%.1fx", value)
}
