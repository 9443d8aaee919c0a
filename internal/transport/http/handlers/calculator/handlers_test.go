package calculatorhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdesk/internal/platform/metrics"
	"taxdesk/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func newTestHandler() (*Handler, *metrics.Collector) {
	collector := metrics.New()
	h := NewHandler(collector, nil)
	h.now = func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) }
	return h, collector
}

func call(t *testing.T, fn http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	middleware.RequestID(fn).ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func fieldsOf(env envelope) []string {
	if env.Error == nil {
		return nil
	}
	out := make([]string, 0, len(env.Error.Details.Fields))
	for _, f := range env.Error.Details.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestHandleCalculateTax(t *testing.T) {
	h, collector := newTestHandler()
	rec, env := call(t, h.HandleCalculateTax, `{"salary": 1000000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)

	var data struct {
		FinancialYear string `json:"financialYear"`
		OldRegime     struct {
			TotalTax float64 `json:"totalTax"`
		} `json:"oldRegime"`
		NewRegime struct {
			TotalTax      float64 `json:"totalTax"`
			EffectiveRate float64 `json:"effectiveRate"`
		} `json:"newRegime"`
		Recommended string  `json:"recommended"`
		Savings     float64 `json:"savings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "2024-2025", data.FinancialYear)
	assert.Equal(t, 106600.0, data.OldRegime.TotalTax)
	assert.Equal(t, 54600.0, data.NewRegime.TotalTax)
	assert.Equal(t, 5.46, data.NewRegime.EffectiveRate)
	assert.Equal(t, "new", data.Recommended)
	assert.Equal(t, 52000.0, data.Savings)

	calcs := collector.Snapshot()["calculationsTotal"].(map[string]uint64)
	assert.Equal(t, uint64(1), calcs[KindIncomeTax])
}

func TestHandleCalculateTaxAcceptsStringsAndLegacyYear(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleCalculateTax, `{"salary": "1000000", "age": "60to80", "financial_year": "2025-2026", "deduction80D": "40000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		FinancialYear string `json:"financialYear"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "2025-2026", data.FinancialYear)
}

func TestHandleCalculateTaxValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
		fields []string
	}{
		{name: "malformed", body: `{"salary":`, status: http.StatusBadRequest, code: "invalid_payload"},
		{name: "missing salary", body: `{}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"salary"}},
		{name: "negative numbers", body: `{"salary": -1, "hra": -2}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"hra", "salary"}},
		{name: "not a number", body: `{"salary": "lots"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"salary"}},
		{name: "80C over limit", body: `{"salary": 900000, "deduction80C": 150001}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"deduction80C"}},
		{name: "80D over below60 limit", body: `{"salary": 900000, "deduction80D": 30000}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"deduction80D"}},
		{name: "80D within senior limit", body: `{"salary": 900000, "deduction80D": 30000, "age": "above80"}`, status: http.StatusOK},
		{name: "unknown age", body: `{"salary": 900000, "age": "teen"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"age"}},
		{name: "unknown year", body: `{"salary": 900000, "financialYear": "1999-2000"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"financialYear"}},
		{name: "unknown fields ignored", body: `{"salary": 900000, "bonus": 5}`, status: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler()
			rec, env := call(t, h.HandleCalculateTax, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.code == "" {
				return
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			if tc.fields != nil {
				assert.Equal(t, tc.fields, fieldsOf(env))
			}
		})
	}
}

func TestHandleCalculateTax80DReason(t *testing.T) {
	h, _ := newTestHandler()
	_, env := call(t, h.HandleCalculateTax, `{"salary": 900000, "deduction80D": 30000}`)
	require.NotNil(t, env.Error)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "cannot exceed ₹25,000 for below60", env.Error.Details.Fields[0].Reason)
}

func TestHandleTaxReport(t *testing.T) {
	h, collector := newTestHandler()
	rec, _ := call(t, h.HandleTaxReport, `{"salary": 1200000, "deduction80C": 150000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tax-regime-comparison-2024-2025.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	calcs := collector.Snapshot()["calculationsTotal"].(map[string]uint64)
	assert.Equal(t, uint64(1), calcs[KindTaxReport])

	rec, env := call(t, h.HandleTaxReport, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"salary"}, fieldsOf(env))
}

func TestHandleHRA(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleHRA, `{"basic": 500000, "hra": 200000, "rent": 240000, "city": "Metro"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Exempted float64 `json:"exempted"`
		Taxable  float64 `json:"taxable"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 190000.0, data.Exempted)
	assert.Equal(t, 10000.0, data.Taxable)

	rec, env = call(t, h.HandleHRA, `{"basic": 500000, "hra": 200000, "rent": 240000, "city": "village"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"city"}, fieldsOf(env))
}

func TestHandleAdvanceTax(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleAdvanceTax, `{"tax_liability": 100000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Applicable bool   `json:"applicable"`
		Note       string `json:"note"`
		Schedule   []struct {
			DueDate          string  `json:"due_date"`
			Percentage       int     `json:"percentage"`
			CumulativeAmount float64 `json:"cumulative_amount"`
			AmountDue        float64 `json:"amount_due"`
		} `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Applicable)
	assert.Contains(t, data.Note, "₹10,000")
	require.Len(t, data.Schedule, 4)
	assert.Equal(t, "15th June", data.Schedule[0].DueDate)
	assert.Equal(t, 15000.0, data.Schedule[0].CumulativeAmount)
	assert.Equal(t, 30000.0, data.Schedule[1].AmountDue)
	assert.Equal(t, 100000.0, data.Schedule[3].CumulativeAmount)

	rec, env = call(t, h.HandleAdvanceTax, `{"tax_liability": 5000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.Applicable)

	rec, env = call(t, h.HandleAdvanceTax, `{"tax_liability": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"tax_liability"}, fieldsOf(env))
}

func TestHandleTDS(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleTDS, `{"salary": 600000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		TaxableIncome float64 `json:"taxableIncome"`
		AnnualTax     float64 `json:"annualTax"`
		MonthlyTDS    float64 `json:"monthlyTDS"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 550000.0, data.TaxableIncome)
	assert.Equal(t, 0.0, data.AnnualTax)
	assert.Equal(t, 0.0, data.MonthlyTDS)

	rec, env = call(t, h.HandleTDS, `{"salary": 0, "investments": -1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"investments", "salary"}, fieldsOf(env))
}

func TestHandle80C(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.Handle80C, `{"invested": 200000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Remaining   float64  `json:"remaining"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 0.0, data.Remaining)
	require.NotNil(t, data.Suggestions)
	assert.Empty(t, data.Suggestions)
	assert.Contains(t, string(env.Data), `"suggestions":[]`)

	rec, env = call(t, h.Handle80C, `{"invested": 50000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 100000.0, data.Remaining)
	assert.Len(t, data.Suggestions, 5)
}

func TestHandleSalaryBreakdown(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleSalaryBreakdown, `{"ctc": 1200000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Annual struct {
			Tax    float64 `json:"tax"`
			InHand float64 `json:"inHand"`
		} `json:"annual"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 74193.6, data.Annual.Tax)
	assert.Equal(t, 1051406.4, data.Annual.InHand)

	rec, _ = call(t, h.HandleSalaryBreakdown, `{"ctc": -5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleComposition(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleComposition, `{"turnover": 2000000, "business_type": "service_provider"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		IsEligible bool    `json:"is_eligible"`
		TaxRate    float64 `json:"tax_rate"`
		TaxAmount  float64 `json:"tax_amount"`
		CGST       float64 `json:"cgst"`
		Reason     string  `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.IsEligible)
	assert.Equal(t, 6.0, data.TaxRate)
	assert.Equal(t, 120000.0, data.TaxAmount)
	assert.Equal(t, 60000.0, data.CGST)

	rec, env = call(t, h.HandleComposition, `{"turnover": 20000000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data.Reason = ""
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.IsEligible)
	assert.Equal(t, "Turnover exceeds ₹1.5 Crore limit.", data.Reason)
}

func TestHandleGST(t *testing.T) {
	h, _ := newTestHandler()
	rec, env := call(t, h.HandleGST, `{"amount": 1000, "rate": 18}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Mode        string  `json:"type"`
		GSTAmount   float64 `json:"gstAmount"`
		TotalAmount float64 `json:"totalAmount"`
		CGST        float64 `json:"cgst"`
		SGST        float64 `json:"sgst"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "exclusive", data.Mode)
	assert.Equal(t, 180.0, data.GSTAmount)
	assert.Equal(t, 1180.0, data.TotalAmount)
	assert.Equal(t, 90.0, data.CGST)
	assert.Equal(t, 90.0, data.SGST)

	rec, env = call(t, h.HandleGST, `{"amount": 1000, "rate": 7, "type": "sideways"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"rate", "type"}, fieldsOf(env))
}
