// Package navigation picks safe redirect targets after form posts.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/posts").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths reject return URLs that would land on an action
	// page or a fragment endpoint.
	ExcludedSubpaths []string

	// Fallback is used when no valid return URL is found.
	Fallback string
}

// PostsBackURL keeps post-delete redirects on the dashboard. The create
// form and the bare list fragment are never valid landing pages.
var PostsBackURL = BackURLOptions{
	AllowedPrefix:    "/posts",
	ExcludedSubpaths: []string{"/delete", "/content", "mode=create"},
	Fallback:         "/posts",
}

// SafeBackURL returns the request's "return" value (query first, then
// form) when it is a local URL that passes opts, and opts.Fallback
// otherwise. A return URL mentioning removedID, the resource the request
// just deleted, is also rejected.
func SafeBackURL(r *http.Request, opts BackURLOptions, removedID string) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), removedID, "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), removedID, "")
	}
	if ret == "" {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}
