package taxcalc

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed slabs.yaml
var slabsYAML []byte

// Bracket is one band of a slab table. To is nil for the open top band.
type Bracket struct {
	From  float64  `yaml:"from"`
	To    *float64 `yaml:"to"`
	Rate  float64  `yaml:"rate"`
	Range string   `yaml:"range"`
}

func (b Bracket) RateLabel() string {
	return strconv.FormatFloat(b.Rate, 'f', -1, 64) + "%"
}

type SlabTable []Bracket

type SlabBreakdown struct {
	Range  string  `json:"range"`
	Rate   string  `json:"rate"`
	Amount float64 `json:"amount"`
}

// Tables holds both regimes' slabs for one financial year.
type Tables struct {
	Old SlabTable `yaml:"old"`
	New SlabTable `yaml:"new"`
}

type slabDocument struct {
	Default string            `yaml:"default"`
	Years   map[string]Tables `yaml:"years"`
}

var slabs = mustLoadSlabs(slabsYAML)

func mustLoadSlabs(raw []byte) slabDocument {
	doc, err := loadSlabs(raw)
	if err != nil {
		panic(fmt.Sprintf("taxcalc: invalid slab tables: %v", err))
	}
	return doc
}

func loadSlabs(raw []byte) (slabDocument, error) {
	var doc slabDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return slabDocument{}, err
	}
	if _, ok := doc.Years[doc.Default]; !ok {
		return slabDocument{}, fmt.Errorf("default year %q has no tables", doc.Default)
	}
	for year, t := range doc.Years {
		if err := t.Old.validate(); err != nil {
			return slabDocument{}, fmt.Errorf("%s old regime: %w", year, err)
		}
		if err := t.New.validate(); err != nil {
			return slabDocument{}, fmt.Errorf("%s new regime: %w", year, err)
		}
	}
	return doc, nil
}

func (t SlabTable) validate() error {
	if len(t) == 0 {
		return fmt.Errorf("no brackets")
	}
	if t[0].From != 0 {
		return fmt.Errorf("first bracket must start at 0")
	}
	for i, b := range t {
		last := i == len(t)-1
		if last != (b.To == nil) {
			return fmt.Errorf("bracket %d: only the last bracket may be open-ended", i)
		}
		if b.To != nil && *b.To <= b.From {
			return fmt.Errorf("bracket %d: upper bound must exceed lower bound", i)
		}
		if i > 0 && (t[i-1].To == nil || *t[i-1].To != b.From) {
			return fmt.Errorf("bracket %d: not contiguous with previous bracket", i)
		}
	}
	return nil
}

// Evaluate returns the tax on income and the contribution of each bracket up to and
// including the one that contains the income. The first bracket is always listed.
func (t SlabTable) Evaluate(income float64) (float64, []SlabBreakdown) {
	var tax float64
	breakdown := make([]SlabBreakdown, 0, len(t))
	for i, b := range t {
		if i > 0 && income <= b.From {
			break
		}
		upper := income
		if b.To != nil && *b.To < upper {
			upper = *b.To
		}
		amount := clamp(upper-b.From) * b.Rate / 100
		tax += amount
		breakdown = append(breakdown, SlabBreakdown{Range: b.Range, Rate: b.RateLabel(), Amount: amount})
	}
	return tax, breakdown
}

// DefaultFinancialYear is the year used when a caller does not pick one.
func DefaultFinancialYear() string {
	return slabs.Default
}

func FinancialYears() []string {
	years := make([]string, 0, len(slabs.Years))
	for year := range slabs.Years {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

func TablesFor(financialYear string) (Tables, error) {
	if financialYear == "" {
		financialYear = slabs.Default
	}
	t, ok := slabs.Years[financialYear]
	if !ok {
		return Tables{}, fmt.Errorf("%w: %s", ErrUnknownFinancialYear, financialYear)
	}
	return t, nil
}

func defaultTables() Tables {
	return slabs.Years[slabs.Default]
}

// OldRegimeTax applies the old-regime slabs of the default financial year.
func OldRegimeTax(income float64) (float64, []SlabBreakdown) {
	return defaultTables().Old.Evaluate(income)
}

// NewRegimeTax applies the new-regime slabs of the default financial year.
func NewRegimeTax(income float64) (float64, []SlabBreakdown) {
	return defaultTables().New.Evaluate(income)
}

func roundSlabs(in []SlabBreakdown) []SlabBreakdown {
	out := make([]SlabBreakdown, len(in))
	for i, s := range in {
		s.Amount = round2(s.Amount)
		out[i] = s
	}
	return out
}
