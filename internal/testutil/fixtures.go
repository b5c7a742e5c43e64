package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateBusiness creates a business owned by ownerID.
func (f *Fixtures) CreateBusiness(ctx context.Context, ownerID primitive.ObjectID, name string) models.Business {
	f.t.Helper()

	b := models.Business{
		ID:              primitive.NewObjectID(),
		OwnerID:         ownerID,
		Name:            name,
		TargetCustomers: "Local families",
		Vibe:            "Friendly",
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := f.db.Collection("businesses").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test business: %v", err)
	}
	return b
}

// LinkAccount links a platform to a business. A non-empty syncErr marks the
// account as failing to sync.
func (f *Fixtures) LinkAccount(ctx context.Context, businessID primitive.ObjectID, platform, syncErr string) models.SocialAccount {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.SocialAccount{
		ID:         primitive.NewObjectID(),
		BusinessID: businessID,
		Platform:   platform,
		Username:   "test_" + platform,
		SyncError:  syncErr,
		SyncedAt:   &now,
		CreatedAt:  now,
	}
	if _, err := f.db.Collection("social_accounts").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to link test account: %v", err)
	}
	return a
}

// CreatePost inserts a post with the given status. Timestamps are derived
// from at so tests can control ordering.
func (f *Fixtures) CreatePost(ctx context.Context, businessID primitive.ObjectID, platform, status string, at time.Time) models.Post {
	f.t.Helper()

	p := models.Post{
		ID:         primitive.NewObjectID(),
		BusinessID: businessID,
		Platform:   platform,
		Caption:    status + " post",
		Status:     status,
		CreatedAt:  at.UTC(),
	}
	switch status {
	case models.PostStatusScheduled:
		ts := at.UTC()
		p.ScheduledAt = &ts
		p.ScheduledID = primitive.NewObjectID().Hex()
	case models.PostStatusPublished:
		ts := at.UTC()
		p.PostedAt = &ts
		p.PostID = "fb_" + p.ID.Hex()
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}
