package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/postdesk/internal/app/system/validators"
	"github.com/dalemusser/postdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}
	for _, expected := range []string{"businesses", "social_accounts", "posts"} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func validPost() bson.M {
	return bson.M{
		"business_id": primitive.NewObjectID(),
		"platform":    "instagram",
		"caption":     "Fresh sourdough all weekend",
		"categories":  bson.A{"Promotion", "Seasonal"},
		"status":      "Scheduled",
		"created_at":  time.Now().UTC(),
	}
}

func TestPostsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{name: "valid", mutate: func(bson.M) {}},
		{name: "missing status", mutate: func(d bson.M) { delete(d, "status") }, wantErr: true},
		{name: "unknown status", mutate: func(d bson.M) { d["status"] = "Draft" }, wantErr: true},
		{name: "blank platform", mutate: func(d bson.M) { d["platform"] = "  " }, wantErr: true},
		{name: "unknown category", mutate: func(d bson.M) { d["categories"] = bson.A{"Giveaway"} }, wantErr: true},
		{name: "business_id as string", mutate: func(d bson.M) { d["business_id"] = "abc" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validPost()
			tt.mutate(doc)
			_, err := db.Collection("posts").InsertOne(ctx, doc)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert failed: %v", err)
			}
		})
	}
}

func TestBusinessesValidator_RequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("businesses").InsertOne(ctx, bson.M{
		"owner_id":   primitive.NewObjectID(),
		"created_at": time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected validation error when inserting business without name")
	}

	_, err = db.Collection("businesses").InsertOne(ctx, bson.M{
		"owner_id":   primitive.NewObjectID(),
		"name":       "Corner Bakery",
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("insert valid business failed: %v", err)
	}
}

func TestSocialAccountsValidator_RequiresPlatform(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("social_accounts").InsertOne(ctx, bson.M{
		"business_id": primitive.NewObjectID(),
	})
	if err == nil {
		t.Error("expected validation error when inserting account without platform")
	}
}
