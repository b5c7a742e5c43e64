// internal/app/store/socialaccounts/socialaccountstore.go
package socialaccountstore

import (
	"context"

	"github.com/dalemusser/postdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("social_accounts")}
}

// ListByBusiness returns the accounts linked to a business, ordered by platform.
func (s *Store) ListByBusiness(ctx context.Context, businessID primitive.ObjectID) ([]models.SocialAccount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "platform", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"business_id": businessID}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.SocialAccount, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
