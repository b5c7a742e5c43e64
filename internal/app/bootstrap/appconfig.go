// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, logging, CORS, body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64

	// Redis post list cache. Blank RedisAddr disables caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostsCacheTTL time.Duration

	// Session cookie written by the sign-in service
	SessionKey    string // Secret key shared with the sign-in service
	SessionName   string // Cookie name (default: postdesk-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration
	LoginURL      string // Where signed-out users are sent

	// CSRF protection for forms and API writes
	CSRFKey string // 32-byte key

	// Per-user rate limit on scheduling posts
	CreateRateLimit  int
	CreateRateWindow time.Duration

	// Request timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
