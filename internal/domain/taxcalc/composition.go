package taxcalc

import "fmt"

const (
	CompositionLimitGoods    = 15000000.0 // 1.5 Crore
	CompositionLimitServices = 5000000.0  // 50 Lakhs
)

type CompositionResult struct {
	IsEligible bool    `json:"is_eligible"`
	TaxRate    float64 `json:"tax_rate"`
	TaxAmount  float64 `json:"tax_amount"`
	Turnover   float64 `json:"turnover"`
	CGST       float64 `json:"cgst"`
	SGST       float64 `json:"sgst"`
	Reason     string  `json:"reason"`
}

var compositionRates = map[string]float64{
	BusinessTrader:          1,
	BusinessManufacturer:    1,
	BusinessRestaurant:      5,
	BusinessServiceProvider: 6,
}

// CompositionTax checks composition-scheme eligibility and the flat tax owed on turnover.
func CompositionTax(turnover float64, businessType string) CompositionResult {
	out := CompositionResult{Turnover: round2(turnover)}

	rate, known := compositionRates[businessType]
	switch {
	case businessType == BusinessServiceProvider && turnover > CompositionLimitServices:
		out.Reason = "Turnover exceeds ₹50 Lakhs limit for Service Providers."
		return out
	case businessType != BusinessServiceProvider && turnover > CompositionLimitGoods:
		out.Reason = "Turnover exceeds ₹1.5 Crore limit."
		return out
	case !known:
		out.Reason = fmt.Sprintf("Business type %q is not covered by the composition scheme.", businessType)
		return out
	}

	tax := turnover * rate / 100
	out.IsEligible = true
	out.TaxRate = rate
	out.TaxAmount = round2(tax)
	out.CGST = round2(tax / 2)
	out.SGST = round2(tax / 2)
	return out
}
