// internal/app/store/businesses/businessstore.go
package businessstore

import (
	"context"
	"errors"

	"github.com/dalemusser/postdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the owner has no business.
var ErrNotFound = errors.New("business not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("businesses")}
}

// GetByOwner returns the business owned by ownerID.
func (s *Store) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.Business, error) {
	var b models.Business
	err := s.c.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Business{}, ErrNotFound
	}
	if err != nil {
		return models.Business{}, err
	}
	return b, nil
}
