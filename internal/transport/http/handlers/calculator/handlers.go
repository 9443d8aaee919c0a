package calculatorhandler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"taxdesk/internal/domain/report"
	"taxdesk/internal/domain/taxcalc"
	"taxdesk/internal/platform/format"
	"taxdesk/internal/platform/metrics"
	"taxdesk/internal/transport/http/api"
	"taxdesk/internal/transport/http/middleware"
	"taxdesk/internal/transport/http/shared"
)

const (
	KindIncomeTax       = "income_tax"
	KindTaxReport       = "tax_report"
	KindHRA             = "hra"
	KindAdvanceTax      = "advance_tax"
	KindTDS             = "tds"
	Kind80C             = "section_80c"
	KindSalaryBreakdown = "salary_breakdown"
	KindComposition     = "composition"
	KindGST             = "gst"
)

type Handler struct {
	Metrics *metrics.Collector
	Logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(collector *metrics.Collector, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Metrics: collector, Logger: logger, now: time.Now}
}

type taxRequest struct {
	Salary        shared.Amount `json:"salary"`
	HRA           shared.Amount `json:"hra"`
	LTA           shared.Amount `json:"lta"`
	Deduction80C  shared.Amount `json:"deduction80C"`
	Deduction80D  shared.Amount `json:"deduction80D"`
	Age           string        `json:"age"`
	FinancialYear string        `json:"financialYear"`
	LegacyFY      string        `json:"financial_year"`
}

type hraRequest struct {
	Basic shared.Amount `json:"basic"`
	HRA   shared.Amount `json:"hra"`
	Rent  shared.Amount `json:"rent"`
	City  string        `json:"city"`
}

type advanceTaxRequest struct {
	TaxLiability shared.Amount `json:"tax_liability"`
}

type advanceTaxResponse struct {
	TaxLiability float64                         `json:"tax_liability"`
	Applicable   bool                            `json:"applicable"`
	Note         string                          `json:"note"`
	Schedule     []taxcalc.AdvanceTaxInstallment `json:"schedule"`
}

type tdsRequest struct {
	Salary      shared.Amount `json:"salary"`
	Investments shared.Amount `json:"investments"`
}

type eightyCRequest struct {
	Invested shared.Amount `json:"invested"`
}

type salaryRequest struct {
	CTC shared.Amount `json:"ctc"`
}

type compositionRequest struct {
	Turnover     shared.Amount `json:"turnover"`
	BusinessType string        `json:"business_type"`
}

type gstRequest struct {
	Amount shared.Amount `json:"amount"`
	Rate   shared.Amount `json:"rate"`
	Type   string        `json:"type"`
}

func (h *Handler) HandleCalculateTax(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeTaxInput(w, r)
	if !ok {
		return
	}
	h.Metrics.RecordCalculation(KindIncomeTax)
	api.Success(w, taxcalc.CompareRegimes(in), middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleTaxReport(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeTaxInput(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	cmp := taxcalc.CompareRegimes(in)
	pdf, err := report.RegimeComparison(in, cmp, h.now())
	if err != nil {
		h.Logger.Error("regime report failed", zap.String("requestId", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "report_error", "failed to render report", reqID)
		return
	}
	h.Metrics.RecordCalculation(KindTaxReport)

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tax-regime-comparison-%s.pdf"`, cmp.FinancialYear))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Warn("write report failed", zap.String("requestId", reqID), zap.Error(err))
	}
}

func (h *Handler) decodeTaxInput(w http.ResponseWriter, r *http.Request) (taxcalc.TaxInput, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload taxRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return taxcalc.TaxInput{}, false
	}

	age := strings.ToLower(strings.TrimSpace(payload.Age))
	if age == "" {
		age = taxcalc.AgeBelow60
	}
	fy := strings.TrimSpace(payload.FinancialYear)
	if fy == "" {
		fy = strings.TrimSpace(payload.LegacyFY)
	}

	v := shared.NewValidator()
	in := taxcalc.TaxInput{
		Salary:        v.NonNegative("salary", payload.Salary, true),
		HRA:           v.NonNegative("hra", payload.HRA, false),
		LTA:           v.NonNegative("lta", payload.LTA, false),
		Deduction80C:  v.NonNegative("deduction80C", payload.Deduction80C, false),
		Deduction80D:  v.NonNegative("deduction80D", payload.Deduction80D, false),
		AgeCategory:   age,
		FinancialYear: fy,
	}
	v.Enum("age", age, taxcalc.AgeCategories, "must be one of below60, 60to80, above80")
	v.Enum("financialYear", fy, taxcalc.FinancialYears(), "must be one of "+strings.Join(taxcalc.FinancialYears(), ", "))
	v.Max("deduction80C", in.Deduction80C, taxcalc.Section80CLimit, "cannot exceed ₹1,50,000")
	limit80D := taxcalc.Max80D(age)
	v.Max("deduction80D", in.Deduction80D, limit80D, fmt.Sprintf("cannot exceed %s for %s", format.WholeINR(limit80D), age))
	if v.Reject(w, reqID) {
		return taxcalc.TaxInput{}, false
	}
	return in, true
}

func (h *Handler) HandleHRA(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload hraRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	city := strings.ToLower(strings.TrimSpace(payload.City))
	if city == "" {
		city = taxcalc.CityNonMetro
	}

	v := shared.NewValidator()
	basic := v.NonNegative("basic", payload.Basic, true)
	hra := v.NonNegative("hra", payload.HRA, true)
	rent := v.NonNegative("rent", payload.Rent, true)
	v.Enum("city", city, []string{taxcalc.CityMetro, taxcalc.CityNonMetro}, "must be metro or non-metro")
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(KindHRA)
	api.Success(w, taxcalc.HRAExemption(basic, hra, rent, city), reqID)
}

func (h *Handler) HandleAdvanceTax(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload advanceTaxRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	liability := v.Positive("tax_liability", payload.TaxLiability)
	if v.Reject(w, reqID) {
		return
	}

	applicable := taxcalc.AdvanceTaxApplicable(liability)
	note := fmt.Sprintf("Advance tax applies when the annual liability exceeds %s.", format.WholeINR(taxcalc.AdvanceTaxThreshold))
	if !applicable {
		note = fmt.Sprintf("A liability of %s is within the %s threshold; advance tax is not required.", format.INR(liability), format.WholeINR(taxcalc.AdvanceTaxThreshold))
	}

	h.Metrics.RecordCalculation(KindAdvanceTax)
	api.Success(w, advanceTaxResponse{
		TaxLiability: liability,
		Applicable:   applicable,
		Note:         note,
		Schedule:     taxcalc.AdvanceTaxSchedule(liability),
	}, reqID)
}

func (h *Handler) HandleTDS(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload tdsRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	salary := v.Positive("salary", payload.Salary)
	investments := v.NonNegative("investments", payload.Investments, false)
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(KindTDS)
	api.Success(w, taxcalc.EstimateTDS(salary, investments), reqID)
}

func (h *Handler) Handle80C(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload eightyCRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	invested := v.NonNegative("invested", payload.Invested, true)
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(Kind80C)
	api.Success(w, taxcalc.Track80C(invested), reqID)
}

func (h *Handler) HandleSalaryBreakdown(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload salaryRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	ctc := v.Positive("ctc", payload.CTC)
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(KindSalaryBreakdown)
	api.Success(w, taxcalc.SalaryBreakdown(ctc), reqID)
}

func (h *Handler) HandleComposition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload compositionRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	businessType := strings.ToLower(strings.TrimSpace(payload.BusinessType))
	if businessType == "" {
		businessType = taxcalc.BusinessTrader
	}

	v := shared.NewValidator()
	turnover := v.Positive("turnover", payload.Turnover)
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(KindComposition)
	api.Success(w, taxcalc.CompositionTax(turnover, businessType), reqID)
}

func (h *Handler) HandleGST(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload gstRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	mode := strings.ToLower(strings.TrimSpace(payload.Type))
	if mode == "" {
		mode = taxcalc.GSTModeExclusive
	}

	v := shared.NewValidator()
	amount := v.Positive("amount", payload.Amount)
	rate := v.NonNegative("rate", payload.Rate, true)
	if payload.Rate.Present && !payload.Rate.Invalid {
		v.OneOf("rate", rate, taxcalc.GSTRates, "must be one of 0, 5, 12, 18, 28")
	}
	v.Enum("type", mode, []string{taxcalc.GSTModeExclusive, taxcalc.GSTModeInclusive}, "must be exclusive or inclusive")
	if v.Reject(w, reqID) {
		return
	}

	h.Metrics.RecordCalculation(KindGST)
	api.Success(w, taxcalc.GSTPrice(amount, rate, mode), reqID)
}
