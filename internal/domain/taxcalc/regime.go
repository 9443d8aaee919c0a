package taxcalc

import "math"

// TaxInput is the income-tax form payload. Zero values mean "not provided".
type TaxInput struct {
	Salary        float64 `json:"salary"`
	HRA           float64 `json:"hra"`
	LTA           float64 `json:"lta"`
	Deduction80C  float64 `json:"deduction80C"`
	Deduction80D  float64 `json:"deduction80D"`
	AgeCategory   string  `json:"age"`
	FinancialYear string  `json:"financialYear"`
}

type RegimeResult struct {
	TaxableIncome float64         `json:"taxableIncome"`
	Slabs         []SlabBreakdown `json:"slabs"`
	BaseTax       float64         `json:"baseTax"`
	Rebate        float64         `json:"rebate"`
	Cess          float64         `json:"cess"`
	TotalTax      float64         `json:"totalTax"`
	EffectiveRate float64         `json:"effectiveRate"`
}

type Comparison struct {
	FinancialYear string       `json:"financialYear"`
	OldRegime     RegimeResult `json:"oldRegime"`
	NewRegime     RegimeResult `json:"newRegime"`
	Recommended   string       `json:"recommended"`
	Savings       float64      `json:"savings"`
}

// Rebate87A is the new-regime rebate: the whole base tax up to RebateMax when taxable
// income does not exceed RebateIncomeLimit.
func Rebate87A(taxableIncome, baseTax float64) float64 {
	if taxableIncome <= RebateIncomeLimit {
		return math.Min(baseTax, RebateMax)
	}
	return 0
}

// CompareRegimes computes the liability under both regimes for the same salary.
// An unknown financial year falls back to the default tables.
func CompareRegimes(in TaxInput) Comparison {
	year := in.FinancialYear
	tables, err := TablesFor(year)
	if err != nil {
		year = DefaultFinancialYear()
		tables = defaultTables()
	} else if year == "" {
		year = DefaultFinancialYear()
	}

	oldDeductions := StandardDeduction + in.HRA + in.LTA + in.Deduction80C + in.Deduction80D
	oldTaxable := clamp(in.Salary - oldDeductions)
	oldBase, oldSlabs := tables.Old.Evaluate(oldTaxable)
	oldCess, oldTotal := withCess(oldBase)

	newTaxable := clamp(in.Salary - StandardDeduction)
	newBase, newSlabs := tables.New.Evaluate(newTaxable)
	rebate := Rebate87A(newTaxable, newBase)
	newCess, newTotal := withCess(newBase - rebate)

	out := Comparison{
		FinancialYear: year,
		OldRegime:     buildRegimeResult(in.Salary, oldTaxable, oldSlabs, oldBase, 0, oldCess, oldTotal),
		NewRegime:     buildRegimeResult(in.Salary, newTaxable, newSlabs, newBase, rebate, newCess, newTotal),
		Recommended:   RegimeNew,
		Savings:       round2(math.Abs(oldTotal - newTotal)),
	}
	if oldTotal < newTotal {
		out.Recommended = RegimeOld
	}
	return out
}

func buildRegimeResult(salary, taxable float64, slabs []SlabBreakdown, base, rebate, cess, total float64) RegimeResult {
	return RegimeResult{
		TaxableIncome: round2(taxable),
		Slabs:         roundSlabs(slabs),
		BaseTax:       round2(base),
		Rebate:        round2(rebate),
		Cess:          round2(cess),
		TotalTax:      round2(total),
		EffectiveRate: round2(effectiveRate(total, salary)),
	}
}

func effectiveRate(total, salary float64) float64 {
	if salary <= 0 {
		return 0
	}
	return total / salary * 100
}
