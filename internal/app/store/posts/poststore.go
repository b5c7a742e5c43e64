// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/postdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a post does not exist for the business.
	ErrNotFound = errors.New("post not found")
	// ErrInvalid is returned when a write is missing a required field.
	ErrInvalid = errors.New("invalid post")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// listOrder is the dashboard order: each status bucket with its own sort key.
var listOrder = []struct {
	status string
	sortBy string
}{
	{models.PostStatusFailed, "created_at"},
	{models.PostStatusScheduled, "scheduled_at"},
	{models.PostStatusPublished, "posted_at"},
}

// ListForBusiness returns the business's posts grouped Failed, Scheduled,
// Published, each group newest first by its own timestamp.
func (s *Store) ListForBusiness(ctx context.Context, businessID primitive.ObjectID) ([]models.Post, error) {
	out := make([]models.Post, 0)
	for _, o := range listOrder {
		opts := options.Find().SetSort(bson.D{{Key: o.sortBy, Value: -1}, {Key: "_id", Value: -1}})
		cur, err := s.c.Find(ctx, bson.M{"business_id": businessID, "status": o.status}, opts)
		if err != nil {
			return nil, fmt.Errorf("find %s posts: %w", strings.ToLower(o.status), err)
		}
		var batch []models.Post
		if err := cur.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("decode %s posts: %w", strings.ToLower(o.status), err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Create inserts a post, assigning its ID and CreatedAt.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if p.BusinessID.IsZero() {
		return models.Post{}, fmt.Errorf("%w: business_id is required", ErrInvalid)
	}
	if strings.TrimSpace(p.Platform) == "" {
		return models.Post{}, fmt.Errorf("%w: platform is required", ErrInvalid)
	}
	if p.Status == "" {
		p.Status = models.PostStatusScheduled
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetForBusiness loads a post scoped to its business.
func (s *Store) GetForBusiness(ctx context.Context, businessID, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	err := s.c.FindOne(ctx, bson.M{"_id": id, "business_id": businessID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Edit is the set of fields an update may change. ScheduledAt is applied
// only when Reschedule is set, together with ScheduledID and Status.
type Edit struct {
	Caption    string
	Categories []string

	Reschedule  bool
	ScheduledAt time.Time
	ScheduledID string
}

// UpdateForBusiness applies e to an unpublished post and returns the stored
// result. A published post or one owned by another business is ErrNotFound.
func (s *Store) UpdateForBusiness(ctx context.Context, businessID, id primitive.ObjectID, e Edit) (models.Post, error) {
	if e.Reschedule && (e.ScheduledAt.IsZero() || strings.TrimSpace(e.ScheduledID) == "") {
		return models.Post{}, fmt.Errorf("%w: reschedule needs scheduled_at and scheduled_id", ErrInvalid)
	}

	set := bson.M{"caption": e.Caption}
	update := bson.M{"$set": set}
	if len(e.Categories) > 0 {
		set["categories"] = e.Categories
	} else {
		update["$unset"] = bson.M{"categories": ""}
	}
	if e.Reschedule {
		set["scheduled_at"] = e.ScheduledAt.UTC()
		set["scheduled_id"] = e.ScheduledID
		set["status"] = models.PostStatusScheduled
	}

	filter := bson.M{
		"_id":         id,
		"business_id": businessID,
		"status":      bson.M{"$ne": models.PostStatusPublished},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// DeleteForBusiness removes a post scoped to its business.
func (s *Store) DeleteForBusiness(ctx context.Context, businessID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "business_id": businessID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of posts per status for a business.
func (s *Store) CountByStatus(ctx context.Context, businessID primitive.ObjectID) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"business_id": businessID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}
