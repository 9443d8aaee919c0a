package assistanthandler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"taxdesk/internal/domain/assistant"
	"taxdesk/internal/platform/metrics"
	"taxdesk/internal/transport/http/api"
	"taxdesk/internal/transport/http/middleware"
	"taxdesk/internal/transport/http/shared"
)

const maxMessageLength = 2000

type Handler struct {
	Metrics *metrics.Collector
}

func NewHandler(collector *metrics.Collector) *Handler {
	return &Handler{Metrics: collector}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload chatRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	v.Required("message", payload.Message, "is required")
	if utf8.RuneCountInString(payload.Message) > maxMessageLength {
		v.Add("message", "must be at most 2000 characters")
	}
	if v.Reject(w, reqID) {
		return
	}

	reply := assistant.Respond(strings.TrimSpace(payload.Message))
	h.Metrics.RecordCalculation("chat:" + reply.Topic)
	api.Success(w, reply, reqID)
}

func (h *Handler) HandleTopics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{"topics": assistant.Topics()}, middleware.GetRequestID(r.Context()))
}
