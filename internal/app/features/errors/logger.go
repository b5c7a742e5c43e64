// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/postdesk/internal/app/system/authz"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and renders the
// matching error page.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger for use by feature handlers.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err with msg and request fields, then renders a 500
// page showing userMsg. An HTMX request gets the plain message instead of
// a full page so it can be swapped into place.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	_, _, uid, _ := authz.UserCtx(r)
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("user_id", uid.Hex()),
	)

	if r.Header.Get("HX-Request") == "true" {
		http.Error(w, userMsg, http.StatusInternalServerError)
		return
	}
	RenderServerError(w, r, userMsg, backURL)
}
