// internal/app/features/posts/list.go
package posts

import (
	"net/http"

	"github.com/dalemusser/postdesk/internal/app/postlist"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/dalemusser/postdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// contentData feeds the "posts_content" template: header plus list region.
type contentData struct {
	Page      postlist.Page
	CSRFToken string
}

type indexData struct {
	viewdata.BaseVM
	Content contentData
	Pending bool // content still to be loaded by htmx
}

// ServeIndex handles GET /posts.
//
// The shell renders an unresolved controller snapshot (action disabled,
// list loading) and htmx then loads /posts/content. ?mode=create is the
// create action's navigation target.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("mode") == "create" {
		h.serveCreate(w, r)
		return
	}
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	c := h.newController(ownerID, nil)
	base := viewdata.NewBaseVM(r, postlist.PageTitle, "/")
	templates.Render(w, r, "posts_index", indexData{
		BaseVM:  base,
		Content: contentData{Page: c.View(), CSRFToken: base.CSRFToken},
		Pending: true,
	})
}

// ServeContent handles GET /posts/content: one activation, one fetch.
func (h *Handler) ServeContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	h.renderResolved(w, r, ownerID)
}

// renderResolved activates a controller, waits for its fetch, and renders
// the result. Non-HTMX requests get the full page.
func (h *Handler) renderResolved(w http.ResponseWriter, r *http.Request, ownerID primitive.ObjectID) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "posts dashboard fetch")
	defer cancel()

	c := h.newController(ownerID, nil)
	c.Activate(ctx)
	defer c.Deactivate()

	if err := c.Wait(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "post list fetch did not resolve", err, "Loading posts took too long. Please try again.", "/posts")
		return
	}

	page := c.View()
	if page.Editor.Err != nil {
		h.Log.Warn("post list fetch failed",
			zap.String("owner_id", ownerID.Hex()),
			zap.Error(page.Editor.Err))
	}

	base := viewdata.NewBaseVM(r, postlist.PageTitle, "/")
	content := contentData{Page: page, CSRFToken: base.CSRFToken}
	if isHTMX(r) {
		templates.RenderSnippet(w, "posts_content", content)
		return
	}
	templates.Render(w, r, "posts_index", indexData{BaseVM: base, Content: content})
}
