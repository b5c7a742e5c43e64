// internal/app/features/posts/edit.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/postdesk/internal/app/features/errors"
	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/postlist"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/dalemusser/postdesk/internal/app/system/viewdata"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type editForm struct {
	Caption     string
	Categories  map[string]bool
	ScheduledAt string
	TZ          string
}

type editData struct {
	viewdata.BaseVM
	Post       postlist.PostViewModel
	Categories []categoryOption
	Form       editForm
	Error      string
}

func editFormFromRequest(r *http.Request) editForm {
	f := editForm{
		Caption:     r.FormValue("caption"),
		ScheduledAt: strings.TrimSpace(r.FormValue("scheduled_at")),
		TZ:          strings.TrimSpace(r.FormValue("tz")),
		Categories:  map[string]bool{},
	}
	for _, c := range r.Form["categories"] {
		f.Categories[c] = true
	}
	return f
}

// input converts the form into an UpdateInput. A blank schedule keeps the
// current one; categories are always replaced.
func (f editForm) input(categoryOrder []string) (postfeed.UpdateInput, string) {
	when, problem := parseSchedule(f.ScheduledAt, f.TZ)
	if problem != "" {
		return postfeed.UpdateInput{}, problem
	}
	caption := f.Caption
	in := postfeed.UpdateInput{
		Caption:    &caption,
		Categories: orderedCategories(f.Categories, categoryOrder),
	}
	if !when.IsZero() {
		in.ScheduledAt = &when
	}
	return in, ""
}

func postIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid post ID.", "/posts")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeEdit handles GET /posts/{id}.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}
	h.renderEditForm(w, r, ownerID, postID, nil, "", http.StatusOK)
}

// renderEditForm loads the post and shows the form. A nil form is filled
// from the stored post.
func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, ownerID, postID primitive.ObjectID, form *editForm, msg string, status int) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Feed.Get(ctx, ownerID, postID)
	switch {
	case err == nil:
	case errors.Is(err, postfeed.ErrPostNotFound), errors.Is(err, postfeed.ErrBusinessNotFound):
		uierrors.RenderNotFound(w, r, "Post not found.", "/posts")
		return
	default:
		h.ErrLog.LogServerError(w, r, "load post failed", err, "Unable to load the post.", "/posts")
		return
	}
	if p.Status == models.PostStatusPublished {
		uierrors.RenderBadRequest(w, r, "Published posts can't be edited.", "/posts")
		return
	}

	if form == nil {
		form = &editForm{Caption: p.Caption, Categories: map[string]bool{}, TZ: "UTC"}
		for _, c := range p.Categories {
			form.Categories[c] = true
		}
	}

	data := editData{
		BaseVM: viewdata.NewBaseVM(r, "Edit Post", "/posts"),
		Post:   postlist.MapPost(p),
		Form:   *form,
		Error:  msg,
	}
	for i, label := range models.PostCategories {
		data.Categories = append(data.Categories, categoryOption{ID: i + 1, Label: label, Selected: form.Categories[label]})
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "posts_edit", data)
}

// HandleEdit handles POST /posts/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.RenderBadRequest(w, r, "Bad form submission.", "/posts")
		return
	}

	form := editFormFromRequest(r)
	in, problem := form.input(models.PostCategories)
	if problem != "" {
		h.renderEditForm(w, r, ownerID, postID, &form, problem, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.Feed.Update(ctx, ownerID, postID, in)
	switch {
	case err == nil:
		redirect(w, r, "/posts")
	case errors.Is(err, postfeed.ErrInvalidInput):
		h.renderEditForm(w, r, ownerID, postID, &form, userMessage(err), http.StatusBadRequest)
	case errors.Is(err, postfeed.ErrPublishedUpdate):
		uierrors.RenderBadRequest(w, r, "Published posts can't be edited.", "/posts")
	case errors.Is(err, postfeed.ErrPostNotFound), errors.Is(err, postfeed.ErrBusinessNotFound):
		uierrors.RenderNotFound(w, r, "Post not found.", "/posts")
	default:
		h.ErrLog.LogServerError(w, r, "update post failed", err, "Unable to save the post.", "/posts")
	}
}
