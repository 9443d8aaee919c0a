package assistant

import "strings"

const (
	TopicGreeting        = "greeting"
	TopicIncomeTax       = "income_tax"
	TopicGST             = "gst"
	TopicHRA             = "hra"
	TopicAdvanceTax      = "advance_tax"
	TopicTDS             = "tds"
	Topic80C             = "section_80c"
	TopicSalary          = "salary"
	TopicComposition     = "composition"
	TopicITRForms        = "itr_forms"
	TopicEquityGains     = "equity_gains"
	TopicPropertyGains   = "property_gains"
	TopicCrypto          = "crypto"
	TopicFreelance       = "freelance"
	TopicSavingsInterest = "savings_interest"
	TopicPenalties       = "penalties"
	TopicRefunds         = "refunds"
	TopicForm16          = "form_16"
	TopicGifts           = "gifts"
	TopicHomeLoan        = "home_loan"
	TopicSlabs           = "slabs"
	TopicFallback        = "fallback"
)

type Reply struct {
	Topic string `json:"topic"`
	Text  string `json:"response"`
}

type rule struct {
	topic string
	match func(q string) bool
	text  string
}

func hasAny(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if strings.Contains(q, k) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(q string) bool { return a(q) && b(q) }
}

func without(a, b func(string) bool) func(string) bool {
	return func(q string) bool { return a(q) && !b(q) }
}

// rules are evaluated top to bottom and the first match wins. Specific topics that share
// words with broader ones are guarded or placed first, so the order is part of the contract.
var rules = []rule{
	{
		topic: TopicGreeting,
		match: hasAny("hi", "hello", "hey", "greetings", "help", "start"),
		text: "Hello! I am your Virtual Tax Expert. I can answer almost anything about Indian Taxation.\n\n" +
			"Topics I know:\n" +
			"✅ Tools: Income Tax, GST, Salary, HRA, Advance Tax.\n" +
			"✅ Filing: ITR Forms (1, 2, 3, 4), Deadlines, Penalties.\n" +
			"✅ Investments: Capital Gains (Stocks, Gold, Property), Crypto.\n" +
			"✅ Deductions: 80C, 80D, Home Loan, HRA.\n" +
			"✅ Freelancing: Presumptive Tax (44ADA).\n\n" +
			"Just ask freely! E.g., 'Tax on Crypto', 'Which ITR should I file?', or 'LTCG on shares'.",
	},
	{
		topic: TopicIncomeTax,
		match: hasAny("income tax", "tax calculator"),
		text: "Income Tax Calculator\n" +
			"• What: Estimates annual tax liability.\n" +
			"• Why: Compare Old vs New Regime to save money.\n" +
			"• How: Enter Salary & Deductions. We apply FY 24-25 slabs.",
	},
	{
		topic: TopicGST,
		match: without(hasAny("gst"), hasAny("composition")),
		text: "GST Calculator\n" +
			"• What: Calculates GST portion in a price.\n" +
			"• Rates: 5%, 12%, 18%, 28%.\n" +
			"• Formula: Net Price = Original Cost + (Original Cost * Rate/100).",
	},
	{
		topic: TopicHRA,
		match: hasAny("hra", "house rent"),
		text: "HRA Exemption (Old Regime)\n" +
			"• Rule: Least of 3 is exempt:\n" +
			"  1. Actual HRA\n" +
			"  2. 50% Basic (Metro) / 40% (Non-Metro)\n" +
			"  3. Rent Paid - 10% Basic\n" +
			"👉 Use our HRA Calculator for exact figures.",
	},
	{
		topic: TopicAdvanceTax,
		match: hasAny("advance"),
		text: "Advance Tax\n" +
			"• Who: If tax liability > ₹10,000/year.\n" +
			"• Schedule: 15% (Jun 15), 45% (Sep 15), 75% (Dec 15), 100% (Mar 15).\n" +
			"• Penalty: 1% monthly interest under Sec 234B/C if missed.",
	},
	{
		topic: TopicTDS,
		match: hasAny("tds"),
		text: "TDS (Tax Deducted at Source)\n" +
			"• Salary: Employer deducts monthly based on slabs.\n" +
			"• Interest: Bank deducts 10% if interest > ₹40k.\n" +
			"• Refund: If TDS > Actual Tax, claim refund in ITR.",
	},
	{
		topic: Topic80C,
		match: hasAny("80c"),
		text: "Section 80C (Limit: ₹1.5 Lakhs)\n" +
			"• Popular Options: PPF, EPF, ELSS (Mutual Funds), LIC, Sukanya Samriddhi.\n" +
			"• Old Regime Only: Not available in New Regime.",
	},
	{
		topic: TopicSalary,
		match: hasAny("salary", "ctc", "in hand"),
		text: "CTC vs In-Hand Salary\n" +
			"• CTC: Cost to Company (includes PF, Gratuity, Insurance).\n" +
			"• In-Hand: CTC minus (PF Employee Share + Professional Tax + TDS).\n" +
			"• Note: Employer's PF contribution is part of CTC but not In-Hand.",
	},
	{
		topic: TopicComposition,
		match: hasAny("composition"),
		text: "GST Composition Scheme\n" +
			"• For: Small businesses (Turnover < ₹1.5 Cr).\n" +
			"• Rates: 1% (Traders/Mfr), 5% (Restaurants), 6% (Service Providers).\n" +
			"• Pros/Cons: Less compliance, but No Input Tax Credit.",
	},
	{
		topic: TopicITRForms,
		match: hasAny("itr", "form"),
		text: "Which ITR Form to file?\n" +
			"• ITR-1 (Sahaj): Salaried/Pensioners, Income < 50L, One House prop.\n" +
			"• ITR-2: Capital Gains, Foreign Assets, >1 House prop, Income > 50L.\n" +
			"• ITR-3: Business/Profession Income (Regular).\n" +
			"• ITR-4 (Sugam): Presumptive Business/Freelancing (Sec 44AD/ADA).",
	},
	{
		topic: TopicEquityGains,
		match: both(hasAny("stock", "equity", "share", "mutual fund"), hasAny("gain", "tax", "ltcg", "stcg")),
		text: "Capital Gains on Equity/Shares (Budget 2024 Updates)\n" +
			"• STCG (Sold < 1 year): 20% tax.\n" +
			"• LTCG (Sold > 1 year): 12.5% tax (Exempt up to ₹1.25 Lakhs/year).",
	},
	{
		topic: TopicPropertyGains,
		match: both(hasAny("property", "real estate", "gold", "land"), hasAny("gain", "tax")),
		text: "Capital Gains on Property/Gold (Budget 2024)\n" +
			"• STCG: Added to income and taxed at slab rates.\n" +
			"• LTCG (Sold > 2 years): 12.5% (No Indexation benefit generally available now for new purchases, grandfathering rules may apply).",
	},
	{
		topic: TopicCrypto,
		match: hasAny("crypto", "bitcoin", "vda"),
		text: "Tax on Crypto (VDA)\n" +
			"• Rate: Flat 30% tax on profits.\n" +
			"• TDS: 1% on transfer.\n" +
			"• Losses: Cannot be set off against other income or gains.\n" +
			"• Regime: Same tax for everyone.",
	},
	{
		topic: TopicFreelance,
		match: hasAny("freelance", "consultant", "doctor", "44ada"),
		text: "Presumptive Taxation for Freelancers (Sec 44ADA)\n" +
			"• Eligibility: Professionals with Gross Receipts < ₹75 Lakhs.\n" +
			"• Benefit: Declare only 50% of income as profit.\n" +
			"• Tax: Pay tax only on that 50%. No need to maintain audit books.",
	},
	{
		topic: TopicSavingsInterest,
		match: hasAny("savings interest", "80tta", "80ttb", "bank interest"),
		text: "Savings Bank Interest Tax\n" +
			"• Sec 80TTA: Exempt up to ₹10,000 (Below 60 years).\n" +
			"• Sec 80TTB: Exempt up to ₹50,000 (Senior Citizens 60+).\n" +
			"• Excess interest is added to income and taxed.",
	},
	{
		topic: TopicPenalties,
		match: hasAny("penalty", "late", "fine", "234"),
		text: "Penalties & Late Fees\n" +
			"• Late Filing (Sec 234F): ₹5,000 if filed after 31st July (₹1,000 if income < 5L).\n" +
			"• Interest (Sec 234A): 1% per month for delay in filing.\n" +
			"• Advance Tax Default (Sec 234B/C): 1% per month interest.",
	},
	{
		topic: TopicRefunds,
		match: hasAny("refund", "claim"),
		text: "Income Tax Refund\n" +
			"• When: If you paid more tax (TDS/Advance) than your actual liability.\n" +
			"• How: Automatically calculated when you file ITR.\n" +
			"• Status: Check on the e-Filing portal after processing.",
	},
	{
		// Unreachable while the ITR rule matches "form".
		topic: TopicForm16,
		match: hasAny("form 16"),
		text: "Form 16\n" +
			"• A certificate from your employer showing total salary paid and TDS deducted.\n" +
			"• Part A: TDS details.\n" +
			"• Part B: Salary breakdown and computations.\n" +
			"• Needed for filing ITR-1 or ITR-2.",
	},
	{
		topic: TopicGifts,
		match: hasAny("gift"),
		text: "Tax on Gifts\n" +
			"• Exempt: Gifts from relatives (Parents, Spouse, Siblings) are 100% tax-free.\n" +
			"• Wedding: Gifts received on marriage are tax-free.\n" +
			"• Others: If total value > ₹50,000/year, the entire amount is taxable.",
	},
	{
		topic: TopicHomeLoan,
		match: hasAny("home loan", "24b", "housing loan"),
		text: "Home Loan Tax Benefits\n" +
			"• Principal: Sec 80C (up to 1.5L).\n" +
			"• Interest: Sec 24(b) (up to ₹2 Lakhs for self-occupied).\n" +
			"• Joint Loan: Both owners can claim these limits separately!",
	},
	{
		topic: TopicSlabs,
		match: hasAny("slab", "rate", "bracket"),
		text: "New Regime Slabs (FY 2024-25):\n" +
			"0-3L: Nil | 3-7L: 5% (Rebate u/s 87A) | 7-9L: 10% | 9-12L: 15% | 12-15L: 20% | >15L: 30%.\n\n" +
			"Old Regime Slabs:\n" +
			"0-2.5L: Nil | 2.5-5L: 5% | 5-10L: 20% | >10L: 30%.",
	},
}

const fallbackText = "I can answer almost anything about Indian Tax!\n\n" +
	"Try specific questions:\n" +
	"- 'Tax on selling shares' (Capital Gains)\n" +
	"- 'Limit for 80D?' (Medical)\n" +
	"- 'How is Freelance tax calculated?'\n" +
	"- 'Penalty for late filing' \n" +
	"- 'Tax on Crypto'."

// Respond returns the canned answer of the first topic whose keywords appear in query.
func Respond(query string) Reply {
	q := strings.ToLower(query)
	for _, r := range rules {
		if r.match(q) {
			return Reply{Topic: r.topic, Text: r.text}
		}
	}
	return Reply{Topic: TopicFallback, Text: fallbackText}
}

// Topics lists rule topics in evaluation order, followed by the fallback.
func Topics() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.topic)
	}
	return append(out, TopicFallback)
}
