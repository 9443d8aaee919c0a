package taxcalc

type EightyCResult struct {
	Limit       float64  `json:"limit"`
	Invested    float64  `json:"invested"`
	Remaining   float64  `json:"remaining"`
	Suggestions []string `json:"suggestions"`
}

var eightyCSuggestions = []string{
	"ELSS Mutual Funds (Lock-in 3 years)",
	"PPF (Public Provident Fund)",
	"EPF (Employee Provident Fund)",
	"Life Insurance Premiums",
	"5-Year Tax Saver FD",
}

// Track80C reports the Section 80C headroom left after invested.
func Track80C(invested float64) EightyCResult {
	remaining := clamp(Section80CLimit - invested)
	suggestions := []string{}
	if remaining > 0 {
		suggestions = append(suggestions, eightyCSuggestions...)
	}
	return EightyCResult{
		Limit:       Section80CLimit,
		Invested:    round2(invested),
		Remaining:   round2(remaining),
		Suggestions: suggestions,
	}
}
