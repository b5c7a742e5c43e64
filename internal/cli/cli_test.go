package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/postdesk/internal/app/postfeed"
	businessstore "github.com/dalemusser/postdesk/internal/app/store/businesses"
	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGateCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantEnabled bool
		wantReason  string
		wantMessage string
	}{
		{
			name:        "not linked",
			args:        []string{"gate"},
			wantReason:  "not_linked",
			wantMessage: gates.MsgLinkAccountFirst,
		},
		{
			name:        "not linked with sync errors",
			args:        []string{"gate", "--sync-error", "facebook:token expired"},
			wantReason:  "not_linked",
			wantMessage: gates.MsgLinkAccountFirst,
		},
		{
			name:        "linked with sync error",
			args:        []string{"gate", "--linked", "--sync-error", "instagram:rate limited: retry later"},
			wantReason:  "sync_errors",
			wantMessage: gates.MsgFixSyncErrors,
		},
		{
			name:        "linked and clean",
			args:        []string{"gate", "--linked"},
			wantEnabled: true,
			wantReason:  "enabled",
			wantMessage: gates.MsgCreateEnabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			var got GateReport
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decode output %q: %v", out, err)
			}
			if got.Enabled != tt.wantEnabled {
				t.Errorf("Enabled: got %v, want %v", got.Enabled, tt.wantEnabled)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason: got %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message: got %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestGateCommand_PrintsEmptySyncErrorsArray(t *testing.T) {
	out, err := runCLI(t, "gate", "--linked")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"sync_errors": []`) {
		t.Errorf("expected empty sync_errors array, got:\n%s", out)
	}
}

func TestGateCommand_RejectsMalformedSyncError(t *testing.T) {
	for _, bad := range []string{"facebook", ":reason", "facebook:"} {
		if _, err := runCLI(t, "gate", "--linked", "--sync-error", bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseSyncErrors_KeepsColonsInReason(t *testing.T) {
	got, err := parseSyncErrors([]string{"Instagram: rate limited: retry later"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := models.SyncError{Platform: "instagram", Error: "rate limited: retry later"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %+v, want [%+v]", got, want)
	}
}

func TestPostsCommand_RequiresValidOwner(t *testing.T) {
	if _, err := runCLI(t, "posts"); err == nil {
		t.Error("expected error without --owner")
	}
	if _, err := runCLI(t, "posts", "--owner", "not-hex"); err == nil {
		t.Error("expected error for invalid --owner")
	}
}

type fakeList struct {
	dto postfeed.ListDTO
	err error
}

func (f fakeList) List(context.Context, primitive.ObjectID) (postfeed.ListDTO, error) {
	return f.dto, f.err
}

type fakeBusinesses struct {
	b   models.Business
	err error
}

func (f fakeBusinesses) GetByOwner(context.Context, primitive.ObjectID) (models.Business, error) {
	return f.b, f.err
}

type fakeCounter struct {
	counts map[string]int64
	gotBiz primitive.ObjectID
}

func (f *fakeCounter) CountByStatus(_ context.Context, id primitive.ObjectID) (map[string]int64, error) {
	f.gotBiz = id
	return f.counts, nil
}

func TestSummarize(t *testing.T) {
	owner := primitive.NewObjectID()
	biz := models.Business{ID: primitive.NewObjectID(), OwnerID: owner, Name: "Corner Bakery"}
	counter := &fakeCounter{counts: map[string]int64{models.PostStatusScheduled: 4, models.PostStatusFailed: 1}}

	feed := fakeList{dto: postfeed.ListDTO{
		Linked:     true,
		Posts:      []postfeed.PostDTO{},
		SyncErrors: []models.SyncError{{Platform: "facebook", Error: "token expired"}},
	}}

	s, err := summarize(context.Background(), owner, feed, fakeBusinesses{b: biz}, counter)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Business != "Corner Bakery" {
		t.Errorf("Business: got %q", s.Business)
	}
	if counter.gotBiz != biz.ID {
		t.Errorf("counted business %s, want %s", counter.gotBiz.Hex(), biz.ID.Hex())
	}
	if s.Gate.Enabled || s.Gate.Reason != "sync_errors" {
		t.Errorf("Gate: got %+v, want disabled by sync errors", s.Gate)
	}
	if s.Counts[models.PostStatusScheduled] != 4 || s.Counts[models.PostStatusFailed] != 1 {
		t.Errorf("Counts: got %v", s.Counts)
	}
	if n, ok := s.Counts[models.PostStatusPublished]; !ok || n != 0 {
		t.Errorf("expected Published count present as 0, got %v (present=%v)", n, ok)
	}
	if len(s.SyncErrors) != 1 {
		t.Errorf("SyncErrors: got %v", s.SyncErrors)
	}
}

func TestSummarize_NoBusiness(t *testing.T) {
	owner := primitive.NewObjectID()
	counter := &fakeCounter{}

	s, err := summarize(context.Background(), owner,
		fakeList{dto: postfeed.ListDTO{Linked: false, Posts: []postfeed.PostDTO{}}},
		fakeBusinesses{err: businessstore.ErrNotFound},
		counter)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Gate.Reason != "not_linked" {
		t.Errorf("Gate reason: got %q, want not_linked", s.Gate.Reason)
	}
	if !counter.gotBiz.IsZero() {
		t.Error("counter should not be called without a business")
	}
	if s.SyncErrors == nil {
		t.Error("SyncErrors should be an empty slice, not nil")
	}
}

func TestSummarize_ListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := summarize(context.Background(), primitive.NewObjectID(),
		fakeList{err: boom}, fakeBusinesses{}, &fakeCounter{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped list error, got %v", err)
	}
}
