// internal/app/features/posts/routes.go
package posts

import (
	"net/http"

	"github.com/dalemusser/postdesk/internal/app/system/auth"
	"github.com/dalemusser/postdesk/internal/app/system/authz"
	"github.com/dalemusser/postdesk/internal/app/system/limits"
	"github.com/dalemusser/postdesk/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard under whatever base path the caller chooses
// (typically "/posts"). csrf may be nil. createLimit throttles POST / per user
// and may be nil.
//
//	h := posts.NewHandler(feed, m, errLog, logger)
//	r.Mount("/posts", posts.Routes(h, sessionMgr, csrfMW, limiter))
func Routes(h *Handler, sm *auth.SessionManager, csrf func(http.Handler) http.Handler, createLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		// Bound the body before the CSRF check parses the form.
		pr.Use(limitBody(limits.MaxPostsFormSize))
		if csrf != nil {
			pr.Use(csrf)
		}

		// Shell, resolved content, and ?mode=create
		pr.Get("/", h.ServeIndex)
		pr.Get("/content", h.ServeContent)

		if createLimit != nil {
			pr.With(createLimit.Middleware(authz.UserKey)).Post("/", h.HandleCreate)
		} else {
			pr.Post("/", h.HandleCreate)
		}
		pr.Get("/{id}", h.ServeEdit)
		pr.Post("/{id}", h.HandleEdit)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
