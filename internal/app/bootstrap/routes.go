// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/postdesk/internal/app/features/errors"
	healthfeature "github.com/dalemusser/postdesk/internal/app/features/health"
	homefeature "github.com/dalemusser/postdesk/internal/app/features/home"
	postsfeature "github.com/dalemusser/postdesk/internal/app/features/posts"
	postsapifeature "github.com/dalemusser/postdesk/internal/app/features/postsapi"
	_ "github.com/dalemusser/postdesk/internal/app/features/shared/views"
	"github.com/dalemusser/postdesk/internal/app/postfeed"
	businessstore "github.com/dalemusser/postdesk/internal/app/store/businesses"
	poststore "github.com/dalemusser/postdesk/internal/app/store/posts"
	socialaccountstore "github.com/dalemusser/postdesk/internal/app/store/socialaccounts"
	"github.com/dalemusser/postdesk/internal/app/system/auth"
	"github.com/dalemusser/postdesk/internal/app/system/cache"
	"github.com/dalemusser/postdesk/internal/app/system/metrics"
	"github.com/dalemusser/postdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "postdesk:"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. PostDesk boots the template engine, reads the
// session cookie on every request, builds the posts feed over the stores and
// cache, and mounts the landing page, dashboard, JSON API, health check and
// metrics endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetLoginURL(appCfg.LoginURL)

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	feed := postfeed.New(
		businessstore.New(deps.MongoDatabase),
		socialaccountstore.New(deps.MongoDatabase),
		poststore.New(deps.MongoDatabase),
		buildCache(deps, logger),
		appCfg.PostsCacheTTL,
		m,
		logger,
	)

	protect := csrf.Protect(
		[]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.RenderForbidden(w, r, "Your form expired. Reload the page and try again.", "/posts")
		})),
	)
	csrfMW := func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		// Origin checks assume TLS unless the request is marked plaintext.
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	createLimit := ratelimit.New(appCfg.CreateRateLimit, appCfg.CreateRateWindow)

	r := chi.NewRouter()

	// Loads SessionUser into context when the cookie is signed in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, redisCmdable(deps), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(appCfg.LoginURL, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	postsHandler := postsfeature.NewHandler(feed, m, errLog, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr, csrfMW, createLimit))

	apiHandler := postsapifeature.NewHandler(feed, logger)
	r.Mount("/api/posts", postsapifeature.Routes(apiHandler, sessionMgr, csrfMW))

	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

// buildCache returns the Redis-backed post list cache, or a no-op cache
// when Redis is not configured.
func buildCache(deps DBDeps, logger *zap.Logger) cache.Cache {
	if deps.Redis == nil {
		return cache.Noop{}
	}
	return cache.NewRedis(deps.Redis, cacheKeyPrefix, cache.BreakerSettings{}, logger)
}

// redisCmdable keeps a nil *redis.Client from becoming a non-nil interface.
func redisCmdable(deps DBDeps) redis.Cmdable {
	if deps.Redis == nil {
		return nil
	}
	return deps.Redis
}
