package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses. The dashboard lists them in this order.
const (
	PostStatusFailed    = "Failed"
	PostStatusScheduled = "Scheduled"
	PostStatusPublished = "Published"
)

// Post is a social-media post owned by a business.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`

	Platform   string   `bson:"platform" json:"platform"` // social account key, e.g. "facebook"
	Caption    string   `bson:"caption" json:"caption"`
	Image      string   `bson:"image,omitempty" json:"image,omitempty"`
	Link       string   `bson:"link,omitempty" json:"link,omitempty"`
	Categories []string `bson:"categories,omitempty" json:"categories,omitempty"`

	Status      string `bson:"status" json:"status"`
	ScheduledID string `bson:"scheduled_id,omitempty" json:"scheduled_id,omitempty"`
	PostID      string `bson:"post_id,omitempty" json:"post_id,omitempty"` // id on the social platform

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	ScheduledAt *time.Time `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	PostedAt    *time.Time `bson:"posted_at,omitempty" json:"posted_at,omitempty"`
}

// IsPublished reports whether the post already went out on its platform.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
