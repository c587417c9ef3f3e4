package document

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount as US dollars with thousands separators
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Percent formats a percentage with two decimals, as used in tables
func Percent(v float64) string {
	return printer.Sprintf("%.2f%%", v)
}

// KPIPercent formats the headline coverage rate with one decimal
func KPIPercent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Quantity prints whole numbers as counts and anything else with two decimals
func Quantity(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < math.MaxInt32 {
		return Count(int(v))
	}
	return printer.Sprintf("%.2f", v)
}
