package postlist

import (
	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/domain/models"
)

const (
	PageTitle   = "Posts"
	CreateLabel = "Create Posts"
	// CreatePath is where the create action navigates.
	CreatePath = "/posts?mode=create"
)

// Action is the header button.
type Action struct {
	Label      string
	Path       string
	IsDisabled bool
	Tooltip    string
}

type Header struct {
	Title  string
	Action Action
}

// Editor is the list region.
type Editor struct {
	Posts      []PostViewModel
	Err        error
	IsLoading  bool
	SyncErrors []models.SyncError
}

// ErrMessage is the fetch error text, or "" when the fetch did not fail.
func (e Editor) ErrMessage() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Page is a snapshot of everything the dashboard renders.
type Page struct {
	State  State
	Gate   gates.CreateGate
	Header Header
	Editor Editor
}
