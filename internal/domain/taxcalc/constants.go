package taxcalc

const (
	StandardDeduction = 50000.0
	CessRate          = 0.04

	RebateIncomeLimit = 700000.0
	RebateMax         = 25000.0

	Section80CLimit = 150000.0

	AgeBelow60 = "below60"
	Age60To80  = "60to80"
	AgeAbove80 = "above80"

	CityMetro    = "metro"
	CityNonMetro = "non-metro"

	BusinessTrader          = "trader"
	BusinessManufacturer    = "manufacturer"
	BusinessRestaurant      = "restaurant"
	BusinessServiceProvider = "service_provider"

	GSTModeExclusive = "exclusive"
	GSTModeInclusive = "inclusive"

	RegimeOld = "old"
	RegimeNew = "new"
)

var AgeCategories = []string{AgeBelow60, Age60To80, AgeAbove80}

var BusinessTypes = []string{BusinessTrader, BusinessManufacturer, BusinessRestaurant, BusinessServiceProvider}

var GSTRates = []float64{0, 5, 12, 18, 28}

// Max80D is the Section 80D cap for an age category.
func Max80D(age string) float64 {
	if age == "" || age == AgeBelow60 {
		return 25000
	}
	return 50000
}
