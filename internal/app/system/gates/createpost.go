package gates

import "github.com/dalemusser/postdesk/internal/domain/models"

// Linking is the account-linking state known to the caller.
//
// LinkingUnknown is the zero value and means no payload has been received
// yet (the fetch is pending or failed). It gates the same way as NotLinked.
type Linking int

const (
	LinkingUnknown Linking = iota
	NotLinked
	Linked
)

// LinkingOf converts a received "linked" flag into a Linking value.
func LinkingOf(linked bool) Linking {
	if linked {
		return Linked
	}
	return NotLinked
}

// String returns the label used in logs.
func (l Linking) String() string {
	switch l {
	case Linked:
		return "linked"
	case NotLinked:
		return "not_linked"
	default:
		return "unknown"
	}
}

// Messages shown next to the "Create Posts" action.
const (
	MsgLinkAccountFirst = "You need to link social account first."
	MsgFixSyncErrors    = "Please fix social media sync issues before creating new posts."
	MsgCreateEnabled    = "Create posts for your business. Our AI generates captions for you and helps publish them on linked platforms."
)

// Stable labels for the CreatePost branches.
const (
	ReasonNotLinked  = "not_linked"
	ReasonSyncErrors = "sync_errors"
	ReasonEnabled    = "enabled"
)

// CreateGate is the outcome of CreatePost.
type CreateGate struct {
	Enabled bool
	Message string

	reason string
}

// Reason returns the label of the branch CreatePost took. A CreateGate built
// by hand reports "enabled" or "not_linked" from its Enabled flag.
func (g CreateGate) Reason() string {
	if g.reason != "" {
		return g.reason
	}
	if g.Enabled {
		return ReasonEnabled
	}
	return ReasonNotLinked
}

// CreatePost decides whether a business may create new posts.
//
// Linking dominates sync errors: an unlinked business always gets the
// "link first" message whatever syncErrors holds. A nil and an empty
// syncErrors slice both mean no errors.
func CreatePost(linking Linking, syncErrors []models.SyncError) CreateGate {
	if linking != Linked {
		return CreateGate{Enabled: false, Message: MsgLinkAccountFirst, reason: ReasonNotLinked}
	}
	if len(syncErrors) > 0 {
		return CreateGate{Enabled: false, Message: MsgFixSyncErrors, reason: ReasonSyncErrors}
	}
	return CreateGate{Enabled: true, Message: MsgCreateEnabled, reason: ReasonEnabled}
}
