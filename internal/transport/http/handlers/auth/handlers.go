package authhandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"taxdesk/internal/domain/auth"
	"taxdesk/internal/transport/http/api"
	"taxdesk/internal/transport/http/middleware"
	"taxdesk/internal/transport/http/shared"
)

type Service interface {
	Signup(ctx context.Context, username, password string) (auth.User, error)
	Login(ctx context.Context, username, password string) (auth.LoginResult, error)
	Logout(ctx context.Context, user auth.UserContext) error
	Me(ctx context.Context, userID string) (auth.User, error)
	SignupAllowed() bool
}

type Handler struct {
	Service Service
	Logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: service, Logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload credentialsRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if !h.Service.SignupAllowed() {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "signup is disabled", reqID)
		return
	}

	v := shared.NewValidator()
	v.Add("username", auth.UsernameIssue(payload.Username))
	v.Add("password", auth.PasswordIssue(payload.Password))
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Service.Signup(r.Context(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, auth.ErrSignupDisabled):
		api.Fail(w, http.StatusForbidden, "signup_disabled", "signup is disabled", reqID)
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		api.Fail(w, http.StatusConflict, "username_taken", "username already taken", reqID)
		return
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	case err != nil:
		h.Logger.Error("signup failed", zap.String("requestId", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "signup_error", "failed to create account", reqID)
		return
	}

	api.Created(w, map[string]any{"user": user}, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload credentialsRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.Login(r.Context(), strings.TrimSpace(payload.Username), payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.String("requestId", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", reqID)
		return
	}

	api.Success(w, result, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if err := h.Service.Logout(r.Context(), user); err != nil {
		h.Logger.Error("logout session revoke failed", zap.String("requestId", reqID), zap.String("userId", user.UserID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to end session", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "logged_out"}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	user, err := h.Service.Me(r.Context(), caller.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account no longer exists", reqID)
		return
	}
	if err != nil {
		h.Logger.Error("load current user failed", zap.String("requestId", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "user_error", "failed to load user", reqID)
		return
	}
	api.Success(w, map[string]any{"user": user}, reqID)
}
