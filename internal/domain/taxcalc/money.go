package taxcalc

import (
	"math"

	"github.com/shopspring/decimal"
)

// round2 rounds a monetary value to paise. NaN and infinities pass through untouched.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clamp(v float64) float64 {
	return math.Max(0, v)
}

func withCess(tax float64) (cess, total float64) {
	cess = tax * CessRate
	return cess, tax + cess
}
