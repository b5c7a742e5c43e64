// internal/app/features/posts/create.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/postdesk/internal/app/features/errors"
	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/postlist"
	"github.com/dalemusser/postdesk/internal/app/system/timeouts"
	"github.com/dalemusser/postdesk/internal/app/system/viewdata"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// scheduleLayout matches <input type="datetime-local">.
const scheduleLayout = "2006-01-02T15:04"

type createForm struct {
	Platform    string
	Caption     string
	Image       string
	Link        string
	Categories  map[string]bool
	ScheduledAt string
	TZ          string
}

type categoryOption struct {
	ID       int
	Label    string
	Selected bool
}

type createData struct {
	viewdata.BaseVM
	Business   postfeed.BusinessProfileDTO
	Platforms  []platformOption
	Categories []categoryOption
	Form       createForm
	Error      string
}

type platformOption struct {
	Key      string
	Label    string
	Selected bool
}

func formFromRequest(r *http.Request) createForm {
	f := createForm{
		Platform:    strings.TrimSpace(r.FormValue("platform")),
		Caption:     r.FormValue("caption"),
		Image:       strings.TrimSpace(r.FormValue("image")),
		Link:        strings.TrimSpace(r.FormValue("link")),
		ScheduledAt: strings.TrimSpace(r.FormValue("scheduled_at")),
		TZ:          strings.TrimSpace(r.FormValue("tz")),
		Categories:  map[string]bool{},
	}
	for _, c := range r.Form["categories"] {
		f.Categories[c] = true
	}
	return f
}

// input converts the form into a CreateInput. Only the schedule time can
// fail here; everything else is validated by the feed. A non-empty problem
// is shown to the user.
func (f createForm) input(categoryOrder []string) (in postfeed.CreateInput, problem string) {
	when, problem := parseSchedule(f.ScheduledAt, f.TZ)
	if problem != "" {
		return postfeed.CreateInput{}, problem
	}
	return postfeed.CreateInput{
		Platform:    f.Platform,
		Caption:     f.Caption,
		Image:       f.Image,
		Link:        f.Link,
		Categories:  orderedCategories(f.Categories, categoryOrder),
		ScheduledAt: when,
	}, ""
}

// parseSchedule reads a datetime-local value in the named zone (UTC when
// empty). An empty value is the zero time.
func parseSchedule(value, tz string) (time.Time, string) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, "Unknown time zone."
		}
		loc = l
	}
	if value == "" {
		return time.Time{}, ""
	}
	t, err := time.ParseInLocation(scheduleLayout, value, loc)
	if err != nil {
		return time.Time{}, "Schedule time is not a valid date and time."
	}
	return t, ""
}

// orderedCategories lists the checked labels in option order. Unknown labels
// are passed through so the feed rejects them.
func orderedCategories(checked map[string]bool, categoryOrder []string) []string {
	cats := []string{}
	for _, c := range categoryOrder {
		if checked[c] {
			cats = append(cats, c)
		}
	}
	for c := range checked {
		if !contains(categoryOrder, c) {
			cats = append(cats, c)
		}
	}
	return cats
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// serveCreate handles GET /posts?mode=create. The controller decides: when
// the create gate is disabled the click does not navigate and the user is
// sent back to the dashboard.
func (h *Handler) serveCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	navigated := false
	c := h.newController(ownerID, func(path string, _ postlist.NavigateOptions) {
		navigated = path == postlist.CreatePath
	})
	c.Activate(ctx)
	defer c.Deactivate()
	if err := c.Wait(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "post list fetch did not resolve", err, "Loading posts took too long. Please try again.", "/posts")
		return
	}

	if !c.ClickCreate() || !navigated {
		h.Log.Info("create blocked by gate",
			zap.String("owner_id", ownerID.Hex()),
			zap.String("reason", c.View().Gate.Reason()))
		redirect(w, r, "/posts")
		return
	}

	h.renderCreateForm(w, r, ownerID, createForm{Categories: map[string]bool{}}, "", http.StatusOK)
}

func (h *Handler) renderCreateForm(w http.ResponseWriter, r *http.Request, ownerID primitive.ObjectID, form createForm, msg string, status int) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cc, err := h.Feed.CreateContext(ctx, ownerID)
	if errors.Is(err, postfeed.ErrBusinessNotFound) {
		uierrors.RenderNotFound(w, r, "Set up your business profile before creating posts.", "/posts")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load create context failed", err, "Unable to load the create form.", "/posts")
		return
	}

	data := createData{
		BaseVM:   viewdata.NewBaseVM(r, "Create Posts", "/posts"),
		Business: cc.Business,
		Form:     form,
		Error:    msg,
	}
	for _, p := range cc.LinkedPlatforms {
		data.Platforms = append(data.Platforms, platformOption{Key: p.Key, Label: p.Label, Selected: p.Key == form.Platform})
	}
	for _, c := range cc.SelectableCategories {
		data.Categories = append(data.Categories, categoryOption{ID: c.ID, Label: c.Label, Selected: form.Categories[c.Label]})
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "posts_create", data)
}

// HandleCreate handles POST /posts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.RenderBadRequest(w, r, "Bad form submission.", "/posts")
		return
	}

	form := formFromRequest(r)
	in, problem := form.input(models.PostCategories)
	if problem != "" {
		h.renderCreateForm(w, r, ownerID, form, problem, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.Feed.Create(ctx, ownerID, in)
	switch {
	case err == nil:
		redirect(w, r, "/posts")
	case errors.Is(err, postfeed.ErrCreateBlocked):
		redirect(w, r, "/posts")
	case errors.Is(err, postfeed.ErrInvalidInput), errors.Is(err, postfeed.ErrPlatformNotLinked):
		h.renderCreateForm(w, r, ownerID, form, userMessage(err), http.StatusBadRequest)
	case errors.Is(err, postfeed.ErrBusinessNotFound):
		uierrors.RenderNotFound(w, r, "Set up your business profile before creating posts.", "/posts")
	default:
		h.ErrLog.LogServerError(w, r, "create post failed", err, "Unable to schedule the post.", "/posts")
	}
}

// userMessage turns a feed validation error into a sentence.
func userMessage(err error) string {
	if errors.Is(err, postfeed.ErrPlatformNotLinked) {
		return "Choose a platform you have linked."
	}
	msg := strings.TrimPrefix(err.Error(), postfeed.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Please check the form."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
