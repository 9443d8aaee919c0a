package taxcalc

import (
	"math"
	"strings"
)

type HRABreakdown struct {
	ActualReceived float64 `json:"actualReceived"`
	PercentOfBasic float64 `json:"percentOfBasic"`
	RentMinusBasic float64 `json:"rentMinusBasic"`
}

type HRAResult struct {
	Exempted  float64      `json:"exempted"`
	Taxable   float64      `json:"taxable"`
	Breakdown HRABreakdown `json:"breakdown"`
}

// HRAExemption returns the least of the three statutory limits as the exempt portion.
// Any city type other than metro is treated as non-metro.
func HRAExemption(basic, hraReceived, rentPaid float64, cityType string) HRAResult {
	share := 0.40
	if strings.EqualFold(strings.TrimSpace(cityType), CityMetro) {
		share = 0.50
	}

	actual := hraReceived
	percentOfBasic := basic * share
	rentMinusBasic := clamp(rentPaid - basic*0.10)

	exempt := math.Min(actual, math.Min(percentOfBasic, rentMinusBasic))
	return HRAResult{
		Exempted: round2(exempt),
		Taxable:  round2(clamp(hraReceived - exempt)),
		Breakdown: HRABreakdown{
			ActualReceived: round2(actual),
			PercentOfBasic: round2(percentOfBasic),
			RentMinusBasic: round2(rentMinusBasic),
		},
	}
}
