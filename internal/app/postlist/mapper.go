package postlist

import (
	"html/template"
	"time"

	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/postdesk/internal/domain/models"
)

// PostViewModel is a post shaped for the list region.
type PostViewModel struct {
	ID            string
	PlatformKey   string
	PlatformLabel string
	Caption       template.HTML
	Summary       string
	Image         string
	Link          string
	Categories    []string
	Status        string
	StatusTone    string
	When          string
	CanDelete     bool
	CanEdit       bool
}

// Mapper turns a wire post into a view model.
type Mapper func(postfeed.PostDTO) PostViewModel

const whenLayout = "Jan 2, 2006 at 3:04 PM"

// MapPost is the default Mapper. It is pure.
func MapPost(p postfeed.PostDTO) PostViewModel {
	label := p.Platform.Label
	if label == "" {
		label = models.PlatformLabel(p.Platform.Key)
	}
	return PostViewModel{
		ID:            p.ID,
		PlatformKey:   p.Platform.Key,
		PlatformLabel: label,
		Caption:       htmlsanitize.Caption(p.Caption),
		Summary:       htmlsanitize.Excerpt(p.Caption, 80),
		Image:         p.Image,
		Link:          p.Link,
		Categories:    append([]string(nil), p.Categories...),
		Status:        p.Status,
		StatusTone:    statusTone(p.Status),
		When:          when(p),
		CanDelete:     p.Status != models.PostStatusPublished,
		CanEdit:       p.Status != models.PostStatusPublished,
	}
}

func statusTone(status string) string {
	switch status {
	case models.PostStatusFailed:
		return "danger"
	case models.PostStatusScheduled:
		return "info"
	case models.PostStatusPublished:
		return "success"
	default:
		return "neutral"
	}
}

func when(p postfeed.PostDTO) string {
	switch {
	case p.Status == models.PostStatusPublished && p.PostedAt != nil:
		return "Posted " + fmtTime(*p.PostedAt)
	case p.Status == models.PostStatusScheduled && p.ScheduledAt != nil:
		return "Scheduled for " + fmtTime(*p.ScheduledAt)
	case p.Status == models.PostStatusFailed:
		return "Failed, created " + fmtTime(p.CreatedAt)
	default:
		return "Created " + fmtTime(p.CreatedAt)
	}
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(whenLayout)
}
