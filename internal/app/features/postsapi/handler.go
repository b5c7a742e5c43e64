// Package postsapi serves the posts resource as JSON.
package postsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/system/authz"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Feed is the subset of postfeed.Service the API uses.
type Feed interface {
	List(ctx context.Context, ownerID primitive.ObjectID) (postfeed.ListDTO, error)
	CreateContext(ctx context.Context, ownerID primitive.ObjectID) (postfeed.CreateContextDTO, error)
	Get(ctx context.Context, ownerID, postID primitive.ObjectID) (postfeed.PostDTO, error)
	Update(ctx context.Context, ownerID, postID primitive.ObjectID, in postfeed.UpdateInput) (postfeed.PostDTO, error)
	Delete(ctx context.Context, ownerID, postID primitive.ObjectID) error
}

type Handler struct {
	Feed Feed
	Log  *zap.Logger
}

func NewHandler(feed Feed, logger *zap.Logger) *Handler {
	return &Handler{Feed: feed, Log: logger}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps feed errors to status codes. Anything unrecognized is a 500
// and is logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, postfeed.ErrBusinessNotFound):
		writeError(w, http.StatusNotFound, "Business not found")
	case errors.Is(err, postfeed.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, postfeed.ErrPublishedDelete):
		writeError(w, http.StatusConflict, "Published posts cannot be deleted")
	case errors.Is(err, postfeed.ErrPublishedUpdate):
		writeError(w, http.StatusConflict, "Published posts cannot be edited")
	case errors.Is(err, postfeed.ErrInvalidInput), errors.Is(err, postfeed.ErrPlatformNotLinked):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error(op+" failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("owner_id", authz.OwnerID(r).Hex()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id := authz.OwnerID(r)
	if id.IsZero() {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	return id, true
}

func postID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeList handles GET /api/posts. With ?create=true it returns the create
// form context instead of the list.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if r.URL.Query().Get("create") == "true" {
		cc, err := h.Feed.CreateContext(ctx, ownerID)
		if err != nil {
			h.fail(w, r, "create context", err)
			return
		}
		writeJSON(w, http.StatusOK, cc)
		return
	}

	list, err := h.Feed.List(ctx, ownerID)
	if err != nil {
		h.fail(w, r, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServePost handles GET /api/posts/{id}.
func (h *Handler) ServePost(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Feed.Get(ctx, ownerID, id)
	if err != nil {
		h.fail(w, r, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// patchBody is the PATCH payload. Absent fields are left unchanged.
type patchBody struct {
	Caption     *string    `json:"caption"`
	Categories  *[]string  `json:"categories"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// HandlePatch handles PATCH /api/posts/{id}.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var body patchBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	in := postfeed.UpdateInput{Caption: body.Caption, ScheduledAt: body.ScheduledAt}
	if body.Categories != nil {
		in.Categories = append([]string{}, *body.Categories...)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Feed.Update(ctx, ownerID, id, in)
	if err != nil {
		h.fail(w, r, "update post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /api/posts/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := postID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Feed.Delete(ctx, ownerID, id); err != nil {
		h.fail(w, r, "delete post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
