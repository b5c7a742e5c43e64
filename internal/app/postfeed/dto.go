package postfeed

import (
	"time"

	"github.com/dalemusser/postdesk/internal/domain/models"
)

// ListDTO is the post list payload served to the dashboard.
type ListDTO struct {
	Linked     bool               `json:"linked"`
	Posts      []PostDTO          `json:"posts"`
	SyncErrors []models.SyncError `json:"sync_errors,omitempty"`
}

// PostDTO is one post as served over the wire.
type PostDTO struct {
	ID          string                `json:"id"`
	Platform    models.PlatformOption `json:"platform"`
	Caption     string                `json:"caption"`
	Image       string                `json:"image"`
	Link        string                `json:"link,omitempty"`
	Categories  []string              `json:"categories"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	ScheduledAt *time.Time            `json:"scheduled_at,omitempty"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	ScheduledID string                `json:"scheduled_id,omitempty"`
}

// BusinessProfileDTO is the part of the business used to write captions.
type BusinessProfileDTO struct {
	TargetCustomers string `json:"target_customers"`
	Vibe            string `json:"vibe"`
}

// CategoryOptionDTO is a selectable post category. IDs are 1-based.
type CategoryOptionDTO struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	IsSelected bool   `json:"is_selected"`
}

// CreateContextDTO is what the create form needs.
type CreateContextDTO struct {
	Business             BusinessProfileDTO      `json:"business"`
	SelectableCategories []CategoryOptionDTO     `json:"selectable_categories"`
	LinkedPlatforms      []models.PlatformOption `json:"linked_platforms"`
}

// CreateInput is a validated request to schedule a post.
type CreateInput struct {
	Platform    string
	Caption     string
	Image       string
	Link        string
	Categories  []string
	ScheduledAt time.Time
}

// UpdateInput is a partial edit. Nil fields are left unchanged; an empty,
// non-nil Categories clears them.
type UpdateInput struct {
	Caption     *string
	Categories  []string
	ScheduledAt *time.Time
}

func toPostDTO(p models.Post) PostDTO {
	cats := p.Categories
	if cats == nil {
		cats = []string{}
	}
	return PostDTO{
		ID:          p.ID.Hex(),
		Platform:    models.PlatformOption{Key: p.Platform, Label: models.PlatformLabel(p.Platform)},
		Caption:     p.Caption,
		Image:       p.Image,
		Link:        p.Link,
		Categories:  cats,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		ScheduledAt: p.ScheduledAt,
		PostedAt:    p.PostedAt,
		ScheduledID: p.ScheduledID,
	}
}
