package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AuthStrategy selects how incoming requests are authenticated.
// The strategy is fixed at startup; every request is evaluated against it.
type AuthStrategy string

const (
	StrategyNone       AuthStrategy = "none"       // every request passes, no identity
	StrategyBasic      AuthStrategy = "basic"      // Basic auth credentials on every request
	StrategySession    AuthStrategy = "session"    // in-memory sessions, no expiry
	StrategySessionExp AuthStrategy = "session_exp" // in-memory sessions with max age
	StrategySessionDB  AuthStrategy = "session_db"  // SQLite-persisted sessions
)

type (
	Config struct {
		HTTP
		Database
		Global
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		Strategy          AuthStrategy
		SessionCookieName string
		SessionLifetime   time.Duration
		SessionSecret     string // CSRF/session signing secret, auto-generated if empty
		BcryptCost        int
		SecureCookies     bool // Set to false for local dev without HTTPS
		ExcludedPaths     []string
		SweepSchedule     string // Cron format: "*/15 * * * *" = every 15 minutes
	}
)

// DefaultExcludedPaths are the routes that never require authentication:
// the status probe, registration, and the login endpoint itself.
var DefaultExcludedPaths = []string{
	"/health",
	"/api/v1/status",
	"/api/v1/users",
	"/api/v1/auth_session/login",
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_type", "session_db")
	v.SetDefault("session_name", "_my_session_id")
	v.SetDefault("session_duration", "24h")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_excluded_paths", "")
	v.SetDefault("auth_sweep_schedule", "*/15 * * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			Strategy:          AuthStrategy(v.GetString("AUTH_TYPE")),
			SessionCookieName: v.GetString("SESSION_NAME"),
			SessionLifetime:   v.GetDuration("SESSION_DURATION"),
			SessionSecret:     v.GetString("AUTH_SESSION_SECRET"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			ExcludedPaths:     excludedPaths(v),
			SweepSchedule:     v.GetString("AUTH_SWEEP_SCHEDULE"),
		},
	}
}

// excludedPaths merges the defaults with the comma-separated
// AUTH_EXCLUDED_PATHS env var.
func excludedPaths(v *viper.Viper) []string {
	paths := append([]string{}, DefaultExcludedPaths...)
	for _, p := range strings.Split(v.GetString("AUTH_EXCLUDED_PATHS"), ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
