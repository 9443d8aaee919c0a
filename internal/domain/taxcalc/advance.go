package taxcalc

// AdvanceTaxThreshold is the annual liability above which advance tax is payable.
const AdvanceTaxThreshold = 10000.0

type AdvanceTaxInstallment struct {
	DueDate          string  `json:"due_date"`
	Percentage       int     `json:"percentage"`
	CumulativeAmount float64 `json:"cumulative_amount"`
	AmountDue        float64 `json:"amount_due"`
}

var advanceCheckpoints = []struct {
	dueDate string
	percent int
}{
	{"15th June", 15},
	{"15th Sept", 45},
	{"15th Dec", 75},
	{"15th Mar", 100},
}

// AdvanceTaxSchedule splits a liability into the four cumulative statutory checkpoints.
func AdvanceTaxSchedule(liability float64) []AdvanceTaxInstallment {
	schedule := make([]AdvanceTaxInstallment, 0, len(advanceCheckpoints))
	prev := 0
	for _, cp := range advanceCheckpoints {
		schedule = append(schedule, AdvanceTaxInstallment{
			DueDate:          cp.dueDate,
			Percentage:       cp.percent,
			CumulativeAmount: round2(liability * float64(cp.percent) / 100),
			AmountDue:        round2(liability * float64(cp.percent-prev) / 100),
		})
		prev = cp.percent
	}
	return schedule
}

func AdvanceTaxApplicable(liability float64) bool {
	return liability > AdvanceTaxThreshold
}
