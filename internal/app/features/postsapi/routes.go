// internal/app/features/postsapi/routes.go
package postsapi

import (
	"net/http"

	"github.com/dalemusser/postdesk/internal/app/system/auth"
	"github.com/dalemusser/postdesk/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes mounts the JSON API (typically under "/api/posts"). csrf may be nil;
// when set, PATCH and DELETE require the X-CSRF-Token header.
func Routes(h *Handler, sm *auth.SessionManager, csrf func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(middleware.RequestSize(limits.MaxAPIBodySize))
		if csrf != nil {
			pr.Use(csrf)
		}

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServePost)
		pr.Patch("/{id}", h.HandlePatch)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
