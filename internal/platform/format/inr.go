package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Amount formats v with two decimals and en-IN digit grouping.
func Amount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return printer.Sprintf("%.2f", v)
}

// INR returns v with a rupee sign, e.g. "₹1,234.50" or "-₹10.00".
func INR(v float64) string {
	if v < 0 {
		return "-₹" + Amount(-v)
	}
	return "₹" + Amount(v)
}

// Rupees is INR for outputs whose fonts lack the rupee glyph.
func Rupees(v float64) string {
	if v < 0 {
		return "-Rs. " + Amount(-v)
	}
	return "Rs. " + Amount(v)
}

// WholeINR rounds v to whole rupees, e.g. "₹25,000".
func WholeINR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "₹0"
	}
	if v < 0 {
		return "-₹" + printer.Sprintf("%.0f", -v)
	}
	return "₹" + printer.Sprintf("%.0f", v)
}
