// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	minSessionKeyLen = 32
	csrfKeyLen       = 32
)

// appConfigKeys defines the configuration keys for PostDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: POSTDESK_MONGO_URI, POSTDESK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "postdesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},

	// Post list cache
	{Name: "redis_addr", Default: "", Desc: "Redis host:port for the post list cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "posts_cache_ttl", Default: "30s", Desc: "How long a cached post list is served (e.g., 30s, 2m)"},

	// Sessions (written by the sign-in service)
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key shared with the sign-in service"},
	{Name: "session_name", Default: "postdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},
	{Name: "login_url", Default: "/login", Desc: "Sign-in page for signed-out users"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789abcd", Desc: "32-byte CSRF authentication key"},

	{Name: "create_rate_limit", Default: 20, Desc: "Posts a user may schedule per window"},
	{Name: "create_rate_window", Default: "1m", Desc: "Window for create_rate_limit"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list fetches and writes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, POSTDESK_* for app) and flags
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "POSTDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		PostsCacheTTL: appValues.Duration("posts_cache_ttl", 30*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		LoginURL:      appValues.String("login_url"),

		CSRFKey: appValues.String("csrf_key"),

		CreateRateLimit:  appValues.Int("create_rate_limit"),
		CreateRateWindow: appValues.Duration("create_rate_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before connecting, key lengths are enforced,
// and the development defaults are refused in production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d bytes", minSessionKeyLen)
	}
	if len(appCfg.CSRFKey) != csrfKeyLen {
		return fmt.Errorf("csrf_key must be exactly %d bytes, got %d", csrfKeyLen, len(appCfg.CSRFKey))
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("session_key must be changed in production")
		}
		if appCfg.CSRFKey == "dev-only-csrf-key-0123456789abcd" {
			return fmt.Errorf("csrf_key must be changed in production")
		}
	}

	if appCfg.RedisAddr != "" {
		if _, _, err := net.SplitHostPort(appCfg.RedisAddr); err != nil {
			return fmt.Errorf("redis_addr must be host:port: %w", err)
		}
	}
	if appCfg.CreateRateLimit <= 0 || appCfg.CreateRateWindow <= 0 {
		return fmt.Errorf("create_rate_limit and create_rate_window must be positive")
	}

	return nil
}
