// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/postdesk/internal/app/features/errors"
	_ "github.com/dalemusser/postdesk/internal/app/features/posts/views"
	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/postlist"
	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Feed is the posts resource the dashboard reads and writes.
type Feed interface {
	List(ctx context.Context, ownerID primitive.ObjectID) (postfeed.ListDTO, error)
	CreateContext(ctx context.Context, ownerID primitive.ObjectID) (postfeed.CreateContextDTO, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, in postfeed.CreateInput) (postfeed.PostDTO, error)
	Get(ctx context.Context, ownerID, postID primitive.ObjectID) (postfeed.PostDTO, error)
	Update(ctx context.Context, ownerID, postID primitive.ObjectID, in postfeed.UpdateInput) (postfeed.PostDTO, error)
	Delete(ctx context.Context, ownerID, postID primitive.ObjectID) error
}

// Handler serves the posts dashboard. Each request builds its own
// postlist.Controller bound to the signed-in owner.
type Handler struct {
	Feed    Feed
	Metrics *metrics.Metrics
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(feed Feed, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Feed:    feed,
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	}
}

func (h *Handler) newController(ownerID primitive.ObjectID, nav postlist.Navigator) *postlist.Controller {
	src := postlist.SourceFunc(func(ctx context.Context) (postfeed.ListDTO, error) {
		return h.Feed.List(ctx, ownerID)
	})
	return postlist.NewController(src, nav,
		postlist.WithMetrics(h.Metrics),
		postlist.WithLogger(h.Log.With(zap.String("owner_id", ownerID.Hex()))),
	)
}

// owner returns the signed-in owner or renders the unauthorized page.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	res := gates.RequireAuth(w, r, "")
	return res.OwnerID, res.OK
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// redirect sends the browser to path, via HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
