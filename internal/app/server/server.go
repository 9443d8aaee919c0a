package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taxdesk/internal/domain/auth"
	"taxdesk/internal/platform/config"
	"taxdesk/internal/platform/db"
	"taxdesk/internal/platform/jobs"
	"taxdesk/internal/platform/metrics"
	"taxdesk/internal/transport/http/api"
	assistanthandler "taxdesk/internal/transport/http/handlers/assistant"
	authhandler "taxdesk/internal/transport/http/handlers/auth"
	calculatorhandler "taxdesk/internal/transport/http/handlers/calculator"
	"taxdesk/internal/transport/http/middleware"
)

// Deps carries everything the router needs. Auth and Ready are nil when no database is configured.
type Deps struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Auth    *auth.Service
	Ready   func(ctx context.Context) error
	Counter middleware.CounterStore
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var authenticator middleware.Authenticator
	if deps.Auth != nil {
		authenticator = deps.Auth
	}

	limiterOpts := []middleware.RateLimitOption{middleware.WithLogger(logger)}
	if deps.Counter != nil {
		limiterOpts = append(limiterOpts, middleware.WithCounterStore(deps.Counter))
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	// Auth runs before Logger so request lines carry the caller.
	router.Use(middleware.Auth(authenticator, logger))
	router.Use(middleware.Logger(logger, deps.Metrics))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, limiterOpts...))

		calculator := calculatorhandler.NewHandler(deps.Metrics, logger)
		r.Post("/calculate-tax", calculator.HandleCalculateTax)
		r.Post("/calculate-tax/report", calculator.HandleTaxReport)
		r.Post("/calculate-hra", calculator.HandleHRA)
		r.Post("/calculate-advance-tax", calculator.HandleAdvanceTax)
		r.Post("/calculate-tds", calculator.HandleTDS)
		r.Post("/calculate-80c", calculator.Handle80C)
		r.Post("/calculate-salary-breakdown", calculator.HandleSalaryBreakdown)
		r.Post("/calculate-composition-scheme", calculator.HandleComposition)
		r.Post("/calculate-gst", calculator.HandleGST)

		assistant := assistanthandler.NewHandler(deps.Metrics)
		r.Post("/chat", assistant.HandleChat)
		r.Get("/chat/topics", assistant.HandleTopics)

		if deps.Auth == nil {
			return
		}
		accounts := authhandler.NewHandler(deps.Auth, logger)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute, limiterOpts...))
			r.Post("/auth/signup", accounts.HandleSignup)
			r.Post("/auth/login", accounts.HandleLogin)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/auth/logout", accounts.HandleLogout)
			r.Get("/auth/me", accounts.HandleMe)
		})
	})

	return router
}

// Run wires storage, background jobs and the HTTP server, and blocks until ctx is cancelled
// or the listener fails.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	deps := Deps{Config: cfg, Logger: logger, Metrics: metrics.New()}

	if cfg.DatabaseEnabled() {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return errors.Wrap(err, "migrations failed")
		}

		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			logger.Warn("JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
		}
		deps.Auth = auth.NewService(auth.NewStore(pool), secret, cfg.TokenTTL, cfg.AllowSignup)
		deps.Ready = pool.Ping

		pruner := jobs.New(deps.Auth, logger)
		if err := pruner.Start(ctx, cfg.SessionPruneSchedule); err != nil {
			return err
		}
	} else {
		logger.Info("DATABASE_URL not set; account endpoints disabled")
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return errors.Wrap(err, "parse REDIS_URL")
		}
		client := redis.NewClient(opts)
		defer client.Close()
		deps.Counter = middleware.NewRedisCounter(client)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("taxdesk server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
