package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialAccount is a social platform linked to a business.
//
// SyncError holds the last failure reported by the platform sync process.
// It is cleared when a sync succeeds.
type SocialAccount struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`
	Platform   string             `bson:"platform" json:"platform"`
	Username   string             `bson:"username,omitempty" json:"username,omitempty"`

	SyncError string     `bson:"sync_error,omitempty" json:"sync_error,omitempty"`
	SyncedAt  *time.Time `bson:"synced_at,omitempty" json:"synced_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SyncError describes a platform whose posts could not be synced.
type SyncError struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`
}
