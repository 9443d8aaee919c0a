package shared

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"taxdesk/internal/transport/http/api"
)

// Amount is a JSON money field. Browser forms send numbers as strings, so both
// 1500 and "1500" decode; null, "" and a missing key leave it absent.
type Amount struct {
	Value   float64
	Present bool
	Invalid bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			a.Invalid = true
			return nil
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			return nil
		}
	}
	a.Present = true
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		a.Invalid = true
		return nil
	}
	a.Value = value
	return nil
}

// DecodeJSON decodes the request body into dst and writes the failure response itself.
// Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if r.Body == nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	return true
}
