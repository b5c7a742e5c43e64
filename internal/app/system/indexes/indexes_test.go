package indexes_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/postdesk/internal/app/system/indexes"
	"github.com/dalemusser/postdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, c *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := c.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	want := map[string][]string{
		"businesses":      {"uniq_businesses_owner"},
		"social_accounts": {"uniq_social_accounts_business_platform"},
		"posts": {
			"idx_posts_business_status_created",
			"idx_posts_business_status_scheduled",
			"idx_posts_business_status_posted",
			"idx_posts_scheduled_id",
		},
	}
	for coll, names := range want {
		got := indexNames(t, ctx, db.Collection(coll))
		for _, n := range names {
			if !got[n] {
				t.Errorf("expected index %q on %s", n, coll)
			}
		}
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_RenamesMismatchedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("businesses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("legacy_owner"),
	})
	if err != nil {
		t.Fatalf("seed index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexNames(t, ctx, db.Collection("businesses"))
	if got["legacy_owner"] {
		t.Error("legacy index should have been dropped")
	}
	if !got["uniq_businesses_owner"] {
		t.Error("expected uniq_businesses_owner")
	}
}

func TestEnsureAll_UniqueOwnerEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	owner := primitive.NewObjectID()
	c := db.Collection("businesses")
	if _, err := c.InsertOne(ctx, bson.M{"owner_id": owner, "name": "A", "created_at": time.Now()}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"owner_id": owner, "name": "B", "created_at": time.Now()}); err == nil {
		t.Error("expected duplicate key error for second business of same owner")
	}
}
