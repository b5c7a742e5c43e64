package home

import (
	"net/http"

	_ "github.com/dalemusser/postdesk/internal/app/features/home/views"
	"github.com/dalemusser/postdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	LoginURL string
	Log      *zap.Logger
}

func NewHandler(loginURL string, logger *zap.Logger) *Handler {
	if loginURL == "" {
		loginURL = "/login"
	}
	return &Handler{
		LoginURL: loginURL,
		Log:      logger,
	}
}

// Hero is the landing page hero section.
type Hero struct {
	Eyebrow  string
	Headline string
	Copy     string
	CTALabel string
	CTAURL   string
}

type pageData struct {
	viewdata.BaseVM
	Hero Hero
}

// HeroContent returns the hero copy. Signed-in users go straight to posts.
func (h *Handler) HeroContent(signedIn bool) Hero {
	hero := Hero{
		Eyebrow:  "For Small Businesses",
		Headline: "Automate Your Social Media with AI-Powered Marketing",
		Copy: "Upload product photos, get engaging captions, manage promotions, and " +
			"schedule posts across Instagram and Facebook - all powered by AI.",
		CTALabel: "Get Started",
		CTAURL:   h.LoginURL,
	}
	if signedIn {
		hero.CTAURL = "/posts"
	}
	return hero
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	base := viewdata.NewBaseVM(r, "Welcome", "/")
	templates.Render(w, r, "home", pageData{
		BaseVM: base,
		Hero:   h.HeroContent(base.IsLoggedIn),
	})
}
