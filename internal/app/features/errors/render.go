// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/postdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}
	data.BackURL = backURL

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows an access error page with a message.
// If backURL is empty, a safe back URL from the request is used.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/"),
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_page", data)
}

// RenderServerError shows a generic failure page with a 500 status.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", "/"),
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_page", data)
}

// RenderBadRequest shows a 400 page with a message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Bad request", "/"),
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}

	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows a 404 page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "We couldn't find that page."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", "/"),
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", data)
}
