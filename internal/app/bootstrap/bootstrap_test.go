package bootstrap

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/postdesk/internal/app/system/cache"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/dalemusser/postdesk/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "postdesk_test",
		MongoMaxPoolSize: 10,
		SessionKey:       strings.Repeat("s", 40),
		SessionName:      "postdesk-session",
		SessionMaxAge:    time.Hour,
		LoginURL:         "/login",
		CSRFKey:          strings.Repeat("c", 32),
		CreateRateLimit:  5,
		CreateRateWindow: time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "bad mongo uri", mutate: func(c *AppConfig) { c.MongoURI = "http://nope" }, wantErr: "MongoDB URI"},
		{name: "missing database", mutate: func(c *AppConfig) { c.MongoDatabase = "" }, wantErr: "mongo_database"},
		{name: "short session key", mutate: func(c *AppConfig) { c.SessionKey = "short" }, wantErr: "session_key"},
		{name: "wrong csrf key length", mutate: func(c *AppConfig) { c.CSRFKey = "abc" }, wantErr: "csrf_key"},
		{name: "redis addr without port", mutate: func(c *AppConfig) { c.RedisAddr = "localhost" }, wantErr: "redis_addr"},
		{name: "redis addr ok", mutate: func(c *AppConfig) { c.RedisAddr = "localhost:6379" }},
		{name: "zero rate limit", mutate: func(c *AppConfig) { c.CreateRateLimit = 0 }, wantErr: "create_rate_limit"},
		{
			name:    "dev session key in prod",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" },
			wantErr: "session_key must be changed",
		},
		{
			name:    "dev csrf key in prod",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.CSRFKey = "dev-only-csrf-key-0123456789abcd" },
			wantErr: "csrf_key must be changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			env := tt.env
			if env == "" {
				env = "dev"
			}
			err := ValidateConfig(&config.CoreConfig{Env: env}, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultKeysHaveValidLengths(t *testing.T) {
	for _, k := range appConfigKeys {
		switch k.Name {
		case "session_key":
			if s, _ := k.Default.(string); len(s) < minSessionKeyLen {
				t.Errorf("default session_key is %d bytes, want >= %d", len(s), minSessionKeyLen)
			}
		case "csrf_key":
			if s, _ := k.Default.(string); len(s) != csrfKeyLen {
				t.Errorf("default csrf_key is %d bytes, want %d", len(s), csrfKeyLen)
			}
		}
	}
}

func TestBuildCache(t *testing.T) {
	if _, ok := buildCache(DBDeps{}, testLogger()).(cache.Noop); !ok {
		t.Error("expected Noop cache without Redis")
	}

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()
	if _, ok := buildCache(DBDeps{Redis: rdb}, testLogger()).(*cache.Redis); !ok {
		t.Error("expected Redis cache when a client is configured")
	}
}

func TestRedisCmdable_NilStaysNil(t *testing.T) {
	if got := redisCmdable(DBDeps{}); got != nil {
		t.Errorf("expected nil interface, got %T", got)
	}
}

func TestStartup_ConfiguresTimeouts(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	cfg := validAppConfig()
	cfg.TimeoutShort = 3 * time.Second
	cfg.TimeoutMedium = 7 * time.Second
	if err := Startup(context.Background(), &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	if got := timeouts.Short(); got != 3*time.Second {
		t.Errorf("Short: got %v, want 3s", got)
	}
	if got := timeouts.Medium(); got != 7*time.Second {
		t.Errorf("Medium: got %v, want 7s", got)
	}
}

func TestShutdown_NoClients(t *testing.T) {
	if err := Shutdown(context.Background(), &config.CoreConfig{}, AppConfig{}, DBDeps{}, testLogger()); err != nil {
		t.Errorf("Shutdown with no clients: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// Second run reuses what the first created.
	if err := EnsureSchema(ctx, &config.CoreConfig{}, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema (again): %v", err)
	}

	names, err := db.Collection("posts").Indexes().ListSpecifications(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	if len(names) < 2 {
		t.Errorf("expected posts indexes beyond _id, got %d", len(names))
	}
}
