// Package gates holds the decision functions handlers consult before acting.
//
// Two kinds of gate live here:
//
//   - Handler gates (RequireAuth) check the request's user and render an
//     error page when the check fails. They return a Result whose OK flag
//     tells the handler whether to continue.
//   - Action gates (CreatePost) are pure functions over domain state. They
//     never touch the request and never render; callers decide how to show
//     the outcome.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/postdesk/internal/app/features/errors"
	"github.com/dalemusser/postdesk/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of a handler gate check.
type Result struct {
	Name    string
	OwnerID primitive.ObjectID
	OK      bool
}

// RequireAuth ensures a user with a valid owner ID is signed in.
// If not, it renders the unauthorized page and returns OK=false.
// loginURL is offered as the way back.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{Name: name, OwnerID: uid, OK: true}
}
