package taxcalc

type TDSResult struct {
	TaxableIncome float64 `json:"taxableIncome"`
	AnnualTax     float64 `json:"annualTax"`
	MonthlyTDS    float64 `json:"monthlyTDS"`
}

// EstimateTDS projects monthly salary withholding under the new regime.
func EstimateTDS(salary, investments float64) TDSResult {
	taxable := clamp(salary - StandardDeduction - investments)
	_, total := newRegimeLiability(taxable)
	return TDSResult{
		TaxableIncome: round2(taxable),
		AnnualTax:     round2(total),
		MonthlyTDS:    round2(total / 12),
	}
}

// newRegimeLiability is the simplified estimate used by the payroll tools: income at or
// below the rebate limit pays nothing, anything above pays full slab tax plus cess.
func newRegimeLiability(taxable float64) (base, total float64) {
	base, _ = NewRegimeTax(taxable)
	if taxable <= RebateIncomeLimit {
		base = 0
	}
	_, total = withCess(base)
	return base, total
}
