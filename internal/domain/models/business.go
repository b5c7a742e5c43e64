package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business is the account that owns posts and linked social accounts.
// Each owner has at most one business.
type Business struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name    string             `bson:"name" json:"name"`

	// Profile used when generating captions.
	TargetCustomers string `bson:"target_customers,omitempty" json:"target_customers,omitempty"`
	Vibe            string `bson:"vibe,omitempty" json:"vibe,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
