package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taxdesk/internal/domain/auth"
	"taxdesk/internal/platform/config"
	"taxdesk/internal/platform/metrics"
)

type memoryStore struct {
	mu       sync.Mutex
	users    map[string]auth.AuthUser
	sessions map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]auth.AuthUser{}, sessions: map[string]time.Time{}}
}

func (m *memoryStore) CreateUser(_ context.Context, username, passwordHash string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return auth.User{}, auth.ErrUsernameTaken
		}
	}
	user := auth.User{ID: uuid.NewString(), Username: username, CreatedAt: time.Now()}
	m.users[user.ID] = auth.AuthUser{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (m *memoryStore) FindUserByUsername(_ context.Context, username string) (auth.AuthUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return auth.AuthUser{}, auth.ErrUserNotFound
}

func (m *memoryStore) GetUser(_ context.Context, userID string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u.User, nil
}

func (m *memoryStore) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (m *memoryStore) CreateSession(_ context.Context, userID, sessionHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID+"/"+sessionHash] = expires
	return nil
}

func (m *memoryStore) SessionValid(_ context.Context, userID, sessionHash string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.sessions[userID+"/"+sessionHash]
	return ok && expires.After(at), nil
}

func (m *memoryStore) RevokeSession(_ context.Context, userID, sessionHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID+"/"+sessionHash)
	return nil
}

func (m *memoryStore) PruneSessions(context.Context, time.Time) (int64, error) { return 0, nil }

func testConfig() config.Config {
	return config.Config{
		Addr:               ":0",
		Environment:        "test",
		TokenTTL:           time.Hour,
		AllowSignup:        true,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		MetricsEnabled:     true,
	}
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOpsEndpoints(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig(), Metrics: metrics.New()})

	rec := do(t, router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "calculationsTotal")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	router := NewRouter(Deps{
		Config: testConfig(),
		Ready:  func(context.Context) error { return errors.New("connection refused") },
	})
	rec := do(t, router, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	router := NewRouter(Deps{Config: cfg, Metrics: metrics.New()})
	rec := do(t, router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculatorRoutes(t *testing.T) {
	collector := metrics.New()
	router := NewRouter(Deps{Config: testConfig(), Metrics: collector})

	rec := do(t, router, http.MethodPost, "/api/v1/calculate-gst", `{"amount":1000,"rate":18,"type":"exclusive"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			GSTAmount   float64 `json:"gstAmount"`
			TotalAmount float64 `json:"totalAmount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 180.0, env.Data.GSTAmount)
	assert.Equal(t, 1180.0, env.Data.TotalAmount)

	rec = do(t, router, http.MethodPost, "/api/v1/chat", `{"message":"what is 80C?"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/chat/topics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	snapshot := collector.Snapshot()
	perKind, ok := snapshot["calculationsTotal"].(map[string]uint64)
	require.True(t, ok)
	assert.Equal(t, uint64(1), perKind["gst"])
}

func TestAccountRoutesRequireDatabase(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})
	rec := do(t, router, http.MethodPost, "/api/v1/auth/login", `{"username":"asha","password":"Passw0rdX"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountJourney(t *testing.T) {
	cfg := testConfig()
	service := auth.NewService(newMemoryStore(), "test-secret", cfg.TokenTTL, true)
	router := NewRouter(Deps{Config: cfg, Auth: service})

	rec := do(t, router, http.MethodPost, "/api/v1/auth/signup", `{"username":"Asha","password":"Passw0rdX"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", `{"username":"asha","password":"Passw0rdX"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/me", "", login.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"username":"asha"`)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/logout", "", login.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/me", "", login.Data.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRateLimitOnLogin(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 4
	service := auth.NewService(newMemoryStore(), "test-secret", cfg.TokenTTL, true)
	router := NewRouter(Deps{Config: cfg, Auth: service})

	body := `{"username":"nobody","password":"Passw0rdX"}`
	rec := do(t, router, http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequestLogCarriesCaller(t *testing.T) {
	cfg := testConfig()
	core, logs := observer.New(zapcore.InfoLevel)
	service := auth.NewService(newMemoryStore(), "test-secret", cfg.TokenTTL, true)
	router := NewRouter(Deps{Config: cfg, Logger: zap.New(core), Auth: service})

	rec := do(t, router, http.MethodPost, "/api/v1/auth/signup", `{"username":"asha","password":"Passw0rdX"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", `{"username":"asha","password":"Passw0rdX"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Data struct {
			Token string    `json:"token"`
			User  auth.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = do(t, router, http.MethodGet, "/api/v1/auth/me", "", login.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("request").FilterField(zap.String("path", "/api/v1/auth/me")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, login.Data.User.ID, entries[0].ContextMap()["userId"])
}
