// Package htmlsanitize turns user-written post text into HTML that is safe
// to drop into a template.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag and escapes what is left.
var strict = bluemonday.StrictPolicy()

// Sanitize strips all markup from s and returns escaped text.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}

// Caption renders a post caption: markup is stripped, text escaped, and
// line breaks become <br>. Captions are written for social platforms, so
// newlines carry meaning while tags never do.
func Caption(s string) template.HTML {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strict.Sanitize(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// Excerpt returns the first n runes of s with whitespace collapsed,
// with an ellipsis when it was cut.
func Excerpt(s string, n int) string {
	clean := strings.Join(strings.Fields(s), " ")
	r := []rune(clean)
	if n <= 0 || len(r) <= n {
		return clean
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
