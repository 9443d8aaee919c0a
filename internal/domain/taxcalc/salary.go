package taxcalc

const (
	BasicShareOfCTC      = 0.50
	PFShareOfBasic       = 0.12
	ProfessionalTaxAnnum = 2400.0
)

type AnnualSalary struct {
	CTC    float64 `json:"ctc"`
	Basic  float64 `json:"basic"`
	PF     float64 `json:"pf"`
	PT     float64 `json:"pt"`
	Tax    float64 `json:"tax"`
	InHand float64 `json:"inHand"`
}

type MonthlySalary struct {
	Gross  float64 `json:"gross"`
	PF     float64 `json:"pf"`
	PT     float64 `json:"pt"`
	Tax    float64 `json:"tax"`
	InHand float64 `json:"inHand"`
}

type SalaryBreakdownResult struct {
	TaxableIncome float64       `json:"taxableIncome"`
	Annual        AnnualSalary  `json:"annual"`
	Monthly       MonthlySalary `json:"monthly"`
}

// SalaryBreakdown derives take-home pay from an annual CTC using fixed component shares.
func SalaryBreakdown(ctc float64) SalaryBreakdownResult {
	basic := ctc * BasicShareOfCTC
	pf := basic * PFShareOfBasic
	pt := ProfessionalTaxAnnum

	taxable := clamp(ctc - pf - pt - StandardDeduction)
	_, tax := newRegimeLiability(taxable)
	inHand := clamp(ctc - pf - pt - tax)

	return SalaryBreakdownResult{
		TaxableIncome: round2(taxable),
		Annual: AnnualSalary{
			CTC:    round2(ctc),
			Basic:  round2(basic),
			PF:     round2(pf),
			PT:     round2(pt),
			Tax:    round2(tax),
			InHand: round2(inHand),
		},
		Monthly: MonthlySalary{
			Gross:  round2(ctc / 12),
			PF:     round2(pf / 12),
			PT:     round2(pt / 12),
			Tax:    round2(tax / 12),
			InHand: round2(inHand / 12),
		},
	}
}
