// internal/app/features/posts/delete.go
package posts

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/postdesk/internal/app/features/errors"
	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/system/navigation"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete handles POST /posts/{id}/delete. HTMX requests get the
// refreshed list region back.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	idHex := chi.URLParam(r, "id")
	postID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid post ID.", "/posts")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Feed.Delete(ctx, ownerID, postID)
	switch {
	case err == nil:
	case errors.Is(err, postfeed.ErrPublishedDelete):
		if isHTMX(r) {
			http.Error(w, "Published posts can't be deleted.", http.StatusConflict)
			return
		}
		uierrors.RenderBadRequest(w, r, "Published posts can't be deleted.", "/posts")
		return
	case errors.Is(err, postfeed.ErrPostNotFound), errors.Is(err, postfeed.ErrBusinessNotFound):
		uierrors.RenderNotFound(w, r, "Post not found.", "/posts")
		return
	default:
		h.ErrLog.LogServerError(w, r, "delete post failed", err, "Unable to delete the post.", "/posts")
		return
	}

	if isHTMX(r) {
		h.renderResolved(w, r, ownerID)
		return
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.PostsBackURL, idHex), http.StatusSeeOther)
}
