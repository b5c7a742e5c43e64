package poststore_test

import (
	"errors"
	"testing"
	"time"

	poststore "github.com/dalemusser/postdesk/internal/app/store/posts"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/dalemusser/postdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ListForBusiness_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	biz := fx.CreateBusiness(ctx, primitive.NewObjectID(), "Bakery")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pubOld := fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusPublished, base)
	schedOld := fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusScheduled, base.Add(time.Hour))
	failed := fx.CreatePost(ctx, biz.ID, models.PlatformInstagram, models.PostStatusFailed, base)
	pubNew := fx.CreatePost(ctx, biz.ID, models.PlatformInstagram, models.PostStatusPublished, base.Add(2*time.Hour))
	schedNew := fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusScheduled, base.Add(3*time.Hour))

	// Another business's post must not leak in.
	other := fx.CreateBusiness(ctx, primitive.NewObjectID(), "Other")
	fx.CreatePost(ctx, other.ID, models.PlatformFacebook, models.PostStatusFailed, base)

	got, err := store.ListForBusiness(ctx, biz.ID)
	if err != nil {
		t.Fatalf("ListForBusiness failed: %v", err)
	}

	want := []primitive.ObjectID{failed.ID, schedNew.ID, schedOld.ID, pubNew.ID, pubOld.ID}
	if len(got) != len(want) {
		t.Fatalf("got %d posts, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s (%s), want %s", i, got[i].ID.Hex(), got[i].Status, id.Hex())
		}
	}
}

func TestStore_ListForBusiness_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.ListForBusiness(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListForBusiness failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bizID := primitive.NewObjectID()
	when := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond)

	created, err := store.Create(ctx, models.Post{
		BusinessID:  bizID,
		Platform:    models.PlatformFacebook,
		Caption:     "Fresh bread",
		ScheduledAt: &when,
		ScheduledID: "sched-1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.PostStatusScheduled {
		t.Errorf("default status: got %q, want Scheduled", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetForBusiness(ctx, bizID, created.ID)
	if err != nil {
		t.Fatalf("GetForBusiness failed: %v", err)
	}
	if got.Caption != "Fresh bread" || got.ScheduledID != "sched-1" {
		t.Errorf("unexpected post: %+v", got)
	}

	// Scoped to the business.
	if _, err := store.GetForBusiness(ctx, primitive.NewObjectID(), created.ID); !errors.Is(err, poststore.ErrNotFound) {
		t.Errorf("foreign business: got %v, want ErrNotFound", err)
	}
	if err := store.DeleteForBusiness(ctx, primitive.NewObjectID(), created.ID); !errors.Is(err, poststore.ErrNotFound) {
		t.Errorf("foreign delete: got %v, want ErrNotFound", err)
	}

	if err := store.DeleteForBusiness(ctx, bizID, created.ID); err != nil {
		t.Fatalf("DeleteForBusiness failed: %v", err)
	}
	if _, err := store.GetForBusiness(ctx, bizID, created.ID); !errors.Is(err, poststore.ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Post{Platform: models.PlatformFacebook}); !errors.Is(err, poststore.ErrInvalid) {
		t.Errorf("without business_id: got %v, want ErrInvalid", err)
	}
	if _, err := store.Create(ctx, models.Post{BusinessID: primitive.NewObjectID()}); !errors.Is(err, poststore.ErrInvalid) {
		t.Errorf("without platform: got %v, want ErrInvalid", err)
	}
}

func TestStore_UpdateForBusiness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	biz := fx.CreateBusiness(ctx, primitive.NewObjectID(), "Florist")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failed := fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusFailed, base)

	t.Run("caption and categories only", func(t *testing.T) {
		got, err := store.UpdateForBusiness(ctx, biz.ID, failed.ID, poststore.Edit{
			Caption:    "Spring tulips",
			Categories: []string{"Promotion"},
		})
		if err != nil {
			t.Fatalf("UpdateForBusiness failed: %v", err)
		}
		if got.Caption != "Spring tulips" || len(got.Categories) != 1 || got.Categories[0] != "Promotion" {
			t.Errorf("unexpected post: %+v", got)
		}
		if got.Status != models.PostStatusFailed {
			t.Errorf("status changed without reschedule: %q", got.Status)
		}
	})

	t.Run("reschedule", func(t *testing.T) {
		when := base.Add(48 * time.Hour)
		got, err := store.UpdateForBusiness(ctx, biz.ID, failed.ID, poststore.Edit{
			Caption:     "Spring tulips",
			Reschedule:  true,
			ScheduledAt: when,
			ScheduledID: "sched-2",
		})
		if err != nil {
			t.Fatalf("UpdateForBusiness failed: %v", err)
		}
		if got.Status != models.PostStatusScheduled || got.ScheduledID != "sched-2" {
			t.Errorf("unexpected post: %+v", got)
		}
		if got.ScheduledAt == nil || !got.ScheduledAt.Equal(when) {
			t.Errorf("ScheduledAt: got %v, want %v", got.ScheduledAt, when)
		}
	})

	t.Run("reschedule without id", func(t *testing.T) {
		_, err := store.UpdateForBusiness(ctx, biz.ID, failed.ID, poststore.Edit{Reschedule: true, ScheduledAt: base})
		if !errors.Is(err, poststore.ErrInvalid) {
			t.Errorf("got %v, want ErrInvalid", err)
		}
	})

	t.Run("published is untouched", func(t *testing.T) {
		pub := fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusPublished, base)
		_, err := store.UpdateForBusiness(ctx, biz.ID, pub.ID, poststore.Edit{Caption: "changed"})
		if !errors.Is(err, poststore.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
		got, err := store.GetForBusiness(ctx, biz.ID, pub.ID)
		if err != nil {
			t.Fatalf("GetForBusiness failed: %v", err)
		}
		if got.Caption == "changed" {
			t.Error("published post was modified")
		}
	})

	t.Run("foreign business", func(t *testing.T) {
		_, err := store.UpdateForBusiness(ctx, primitive.NewObjectID(), failed.ID, poststore.Edit{Caption: "x"})
		if !errors.Is(err, poststore.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestStore_CountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	biz := fx.CreateBusiness(ctx, primitive.NewObjectID(), "Cafe")
	now := time.Now()
	fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusFailed, now)
	fx.CreatePost(ctx, biz.ID, models.PlatformFacebook, models.PostStatusScheduled, now)
	fx.CreatePost(ctx, biz.ID, models.PlatformInstagram, models.PostStatusScheduled, now)

	counts, err := store.CountByStatus(ctx, biz.ID)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[models.PostStatusFailed] != 1 || counts[models.PostStatusScheduled] != 2 || counts[models.PostStatusPublished] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
