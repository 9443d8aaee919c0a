package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Addr                 string
	Environment          string
	DatabaseURL          string
	JWTSecret            string
	TokenTTL             time.Duration
	AllowSignup          bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	RedisURL             string
	CORSAllowedOrigins   []string
	LogLevel             string
	LogFormat            string
	MetricsEnabled       bool
	SessionPruneSchedule string
	ShutdownTimeout      time.Duration
}

var defaults = map[string]any{
	"APP_ADDR":               ":8080",
	"APP_ENV":                "development",
	"DATABASE_URL":           "",
	"JWT_SECRET":             "",
	"TOKEN_TTL":              "8h",
	"ALLOW_SIGNUP":           true,
	"MAX_BODY_BYTES":         1048576,
	"RATE_LIMIT_PER_MINUTE":  120,
	"REDIS_URL":              "",
	"CORS_ALLOWED_ORIGINS":   "http://localhost:3000",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "json",
	"METRICS_ENABLED":        true,
	"SESSION_PRUNE_SCHEDULE": "@hourly",
	"SHUTDOWN_TIMEOUT":       "10s",
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return Config{
		Addr:                 v.GetString("APP_ADDR"),
		Environment:          v.GetString("APP_ENV"),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		TokenTTL:             v.GetDuration("TOKEN_TTL"),
		AllowSignup:          v.GetBool("ALLOW_SIGNUP"),
		MaxBodyBytes:         v.GetInt64("MAX_BODY_BYTES"),
		RateLimitPerMinute:   v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RedisURL:             v.GetString("REDIS_URL"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		MetricsEnabled:       v.GetBool("METRICS_ENABLED"),
		SessionPruneSchedule: v.GetString("SESSION_PRUNE_SCHEDULE"),
		ShutdownTimeout:      v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) DatabaseEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("APP_ADDR is required")
	}
	if c.DatabaseEnabled() {
		if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.TokenTTL <= 0 {
			return fmt.Errorf("TOKEN_TTL must be a positive duration")
		}
		if _, err := cron.ParseStandard(c.SessionPruneSchedule); err != nil {
			return fmt.Errorf("SESSION_PRUNE_SCHEDULE is invalid: %w", err)
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	return nil
}
