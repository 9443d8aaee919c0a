package shared

import (
	"net/http"
	"sort"
	"strings"

	"taxdesk/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{
		Field:  field,
		Reason: reason,
	})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Enum accepts an empty value; pair it with Required when the field is mandatory.
func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(strings.TrimSpace(candidate)) {
			return
		}
	}
	v.Add(field, reason)
}

// NonNegative reads a money field that must be zero or more. Absent fields read as 0
// unless required is set.
func (v *Validator) NonNegative(field string, a Amount, required bool) float64 {
	if !v.readable(field, a, required) {
		return 0
	}
	if a.Value < 0 {
		v.Add(field, "must be zero or greater")
	}
	return a.Value
}

// Positive reads a required money field that must be greater than zero.
func (v *Validator) Positive(field string, a Amount) float64 {
	if !v.readable(field, a, true) {
		return 0
	}
	if a.Value <= 0 {
		v.Add(field, "must be greater than 0")
	}
	return a.Value
}

func (v *Validator) Max(field string, value, limit float64, reason string) {
	if value > limit {
		v.Add(field, reason)
	}
}

func (v *Validator) OneOf(field string, value float64, allowed []float64, reason string) {
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, reason)
}

func (v *Validator) readable(field string, a Amount, required bool) bool {
	switch {
	case a.Invalid:
		v.Add(field, "must be a number")
		return false
	case !a.Present:
		if required {
			v.Add(field, "is required")
		}
		return false
	}
	return true
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]ValidationIssue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}
