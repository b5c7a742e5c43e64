// Package postfeed serves the posts resource the dashboard reads: the post
// list with its linking and sync state, the create form context, and post
// writes.
package postfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	businessstore "github.com/dalemusser/postdesk/internal/app/store/businesses"
	poststore "github.com/dalemusser/postdesk/internal/app/store/posts"
	"github.com/dalemusser/postdesk/internal/app/system/cache"
	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/app/system/metrics"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxCaptionLength is the longest caption accepted (Instagram's limit).
const MaxCaptionLength = 2200

type BusinessStore interface {
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.Business, error)
}

type AccountStore interface {
	ListByBusiness(ctx context.Context, businessID primitive.ObjectID) ([]models.SocialAccount, error)
}

type PostStore interface {
	ListForBusiness(ctx context.Context, businessID primitive.ObjectID) ([]models.Post, error)
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetForBusiness(ctx context.Context, businessID, id primitive.ObjectID) (models.Post, error)
	UpdateForBusiness(ctx context.Context, businessID, id primitive.ObjectID, e poststore.Edit) (models.Post, error)
	DeleteForBusiness(ctx context.Context, businessID, id primitive.ObjectID) error
}

type Service struct {
	Businesses BusinessStore
	Accounts   AccountStore
	Posts      PostStore
	Cache      cache.Cache
	CacheTTL   time.Duration
	Metrics    *metrics.Metrics
	Log        *zap.Logger

	now   func() time.Time
	newID func() string
}

func New(b BusinessStore, a AccountStore, p PostStore, c cache.Cache, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		Businesses: b,
		Accounts:   a,
		Posts:      p,
		Cache:      c,
		CacheTTL:   ttl,
		Metrics:    m,
		Log:        logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func listKey(businessID primitive.ObjectID) string {
	return "posts:" + businessID.Hex()
}

// List returns the owner's post list. An owner without a business or without
// linked accounts gets an unlinked, empty list. Account state is always read
// fresh since the sync process changes it outside this service; only the
// post slice is cached.
func (s *Service) List(ctx context.Context, ownerID primitive.ObjectID) (ListDTO, error) {
	biz, err := s.Businesses.GetByOwner(ctx, ownerID)
	if errors.Is(err, businessstore.ErrNotFound) {
		return ListDTO{Linked: false, Posts: []PostDTO{}}, nil
	}
	if err != nil {
		return ListDTO{}, fmt.Errorf("load business: %w", err)
	}

	accounts, err := s.Accounts.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return ListDTO{}, fmt.Errorf("load social accounts: %w", err)
	}

	dto := ListDTO{Linked: len(accounts) > 0, Posts: []PostDTO{}}
	if !dto.Linked {
		return dto, nil
	}
	dto.SyncErrors = syncErrors(accounts)

	if posts, ok := s.cachedPosts(ctx, biz.ID); ok {
		dto.Posts = posts
		return dto, nil
	}

	posts, err := s.Posts.ListForBusiness(ctx, biz.ID)
	if err != nil {
		return ListDTO{}, fmt.Errorf("load posts: %w", err)
	}
	for _, p := range posts {
		dto.Posts = append(dto.Posts, toPostDTO(p))
	}

	s.storePosts(ctx, biz.ID, dto.Posts)
	return dto, nil
}

func (s *Service) cachedPosts(ctx context.Context, businessID primitive.ObjectID) ([]PostDTO, bool) {
	raw, found, err := s.Cache.Get(ctx, listKey(businessID))
	if err != nil {
		s.Metrics.ObserveCache("error")
		s.Log.Warn("post list cache read failed", zap.String("business_id", businessID.Hex()), zap.Error(err))
		return nil, false
	}
	if !found {
		s.Metrics.ObserveCache("miss")
		return nil, false
	}
	var posts []PostDTO
	if err := json.Unmarshal(raw, &posts); err != nil {
		s.Metrics.ObserveCache("error")
		s.Log.Warn("post list cache entry undecodable", zap.String("business_id", businessID.Hex()), zap.Error(err))
		return nil, false
	}
	if posts == nil {
		posts = []PostDTO{}
	}
	s.Metrics.ObserveCache("hit")
	return posts, true
}

func (s *Service) storePosts(ctx context.Context, businessID primitive.ObjectID, posts []PostDTO) {
	if s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, listKey(businessID), raw, s.CacheTTL); err != nil {
		s.Log.Warn("post list cache write failed", zap.String("business_id", businessID.Hex()), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, businessID primitive.ObjectID) {
	if err := s.Cache.Delete(ctx, listKey(businessID)); err != nil {
		s.Log.Warn("post list cache invalidate failed", zap.String("business_id", businessID.Hex()), zap.Error(err))
	}
}

// syncErrors collects failing accounts, known platforms first.
func syncErrors(accounts []models.SocialAccount) []models.SyncError {
	var out []models.SyncError
	for _, a := range accounts {
		if strings.TrimSpace(a.SyncError) == "" {
			continue
		}
		out = append(out, models.SyncError{Platform: a.Platform, Error: a.SyncError})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return models.PlatformRank(out[i].Platform) < models.PlatformRank(out[j].Platform)
	})
	return out
}

func linkedPlatforms(accounts []models.SocialAccount) []models.PlatformOption {
	out := make([]models.PlatformOption, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, models.PlatformOption{Key: a.Platform, Label: models.PlatformLabel(a.Platform)})
	}
	return out
}

// CreateContext returns what the create form needs.
func (s *Service) CreateContext(ctx context.Context, ownerID primitive.ObjectID) (CreateContextDTO, error) {
	biz, err := s.business(ctx, ownerID)
	if err != nil {
		return CreateContextDTO{}, err
	}
	accounts, err := s.Accounts.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return CreateContextDTO{}, fmt.Errorf("load social accounts: %w", err)
	}

	cats := make([]CategoryOptionDTO, len(models.PostCategories))
	for i, label := range models.PostCategories {
		cats[i] = CategoryOptionDTO{ID: i + 1, Label: label}
	}

	return CreateContextDTO{
		Business:             BusinessProfileDTO{TargetCustomers: biz.TargetCustomers, Vibe: biz.Vibe},
		SelectableCategories: cats,
		LinkedPlatforms:      linkedPlatforms(accounts),
	}, nil
}

// Get returns one of the owner's posts.
func (s *Service) Get(ctx context.Context, ownerID, postID primitive.ObjectID) (PostDTO, error) {
	biz, err := s.business(ctx, ownerID)
	if err != nil {
		return PostDTO{}, err
	}
	p, err := s.post(ctx, biz.ID, postID)
	if err != nil {
		return PostDTO{}, err
	}
	return toPostDTO(p), nil
}

// Create schedules a post. The create gate is re-checked against current
// account state so a stale page cannot bypass it.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, in CreateInput) (PostDTO, error) {
	biz, err := s.business(ctx, ownerID)
	if err != nil {
		return PostDTO{}, err
	}
	accounts, err := s.Accounts.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return PostDTO{}, fmt.Errorf("load social accounts: %w", err)
	}

	gate := gates.CreatePost(gates.LinkingOf(len(accounts) > 0), syncErrors(accounts))
	s.Metrics.ObserveGate(gate.Reason())
	if !gate.Enabled {
		return PostDTO{}, &BlockedError{Gate: gate}
	}

	in, err = s.validate(in, accounts)
	if err != nil {
		return PostDTO{}, err
	}

	when := in.ScheduledAt.UTC()
	created, err := s.Posts.Create(ctx, models.Post{
		BusinessID:  biz.ID,
		Platform:    in.Platform,
		Caption:     in.Caption,
		Image:       in.Image,
		Link:        in.Link,
		Categories:  in.Categories,
		Status:      models.PostStatusScheduled,
		ScheduledID: s.newID(),
		ScheduledAt: &when,
	})
	if err != nil {
		return PostDTO{}, fmt.Errorf("create post: %w", err)
	}

	s.invalidate(ctx, biz.ID)
	s.Metrics.ObserveWrite("create")
	s.Log.Info("post scheduled",
		zap.String("business_id", biz.ID.Hex()),
		zap.String("post_id", created.ID.Hex()),
		zap.String("platform", created.Platform),
		zap.Time("scheduled_at", when))
	return toPostDTO(created), nil
}

func (s *Service) validate(in CreateInput, accounts []models.SocialAccount) (CreateInput, error) {
	in.Platform = strings.TrimSpace(in.Platform)
	in.Caption = strings.TrimSpace(in.Caption)
	in.Image = strings.TrimSpace(in.Image)
	in.Link = strings.TrimSpace(in.Link)

	linked := false
	for _, a := range accounts {
		if a.Platform == in.Platform {
			linked = true
			break
		}
	}
	if !linked {
		return in, fmt.Errorf("%w: %s", ErrPlatformNotLinked, in.Platform)
	}
	if err := validCaption(in.Caption); err != nil {
		return in, err
	}
	if in.Image != "" && !urlutil.IsValidAbsHTTPURL(in.Image) {
		return in, fmt.Errorf("%w: image must be an http(s) URL", ErrInvalidInput)
	}
	if in.Link != "" && !urlutil.IsValidAbsHTTPURL(in.Link) {
		return in, fmt.Errorf("%w: link must be an http(s) URL", ErrInvalidInput)
	}
	if err := s.validSchedule(in.ScheduledAt); err != nil {
		return in, err
	}

	cats, err := cleanCategories(in.Categories)
	if err != nil {
		return in, err
	}
	in.Categories = cats
	return in, nil
}

func validCaption(caption string) error {
	if caption == "" {
		return fmt.Errorf("%w: caption is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return fmt.Errorf("%w: caption exceeds %d characters", ErrInvalidInput, MaxCaptionLength)
	}
	return nil
}

func (s *Service) validSchedule(at time.Time) error {
	if at.IsZero() || !at.After(s.now()) {
		return fmt.Errorf("%w: schedule time must be in the future", ErrInvalidInput)
	}
	return nil
}

// cleanCategories trims and de-duplicates labels, keeping first-seen order.
func cleanCategories(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	cats := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if !models.IsPostCategory(c) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, c)
		}
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats, nil
}

// Update edits an unpublished post's caption and categories. A non-nil
// ScheduledAt reschedules it: the post returns to Scheduled under a new
// scheduled ID.
func (s *Service) Update(ctx context.Context, ownerID, postID primitive.ObjectID, in UpdateInput) (PostDTO, error) {
	biz, err := s.business(ctx, ownerID)
	if err != nil {
		return PostDTO{}, err
	}
	p, err := s.post(ctx, biz.ID, postID)
	if err != nil {
		return PostDTO{}, err
	}
	if p.IsPublished() {
		return PostDTO{}, ErrPublishedUpdate
	}

	edit := poststore.Edit{Caption: p.Caption, Categories: p.Categories}
	if in.Caption != nil {
		edit.Caption = strings.TrimSpace(*in.Caption)
		if err := validCaption(edit.Caption); err != nil {
			return PostDTO{}, err
		}
	}
	if in.Categories != nil {
		if edit.Categories, err = cleanCategories(in.Categories); err != nil {
			return PostDTO{}, err
		}
	}
	if in.ScheduledAt != nil {
		if err := s.validSchedule(*in.ScheduledAt); err != nil {
			return PostDTO{}, err
		}
		edit.Reschedule = true
		edit.ScheduledAt = in.ScheduledAt.UTC()
		edit.ScheduledID = s.newID()
	}

	updated, err := s.Posts.UpdateForBusiness(ctx, biz.ID, postID, edit)
	if errors.Is(err, poststore.ErrNotFound) {
		// Published or removed between the read and the write.
		return PostDTO{}, ErrPostNotFound
	}
	if err != nil {
		return PostDTO{}, fmt.Errorf("update post: %w", err)
	}

	s.invalidate(ctx, biz.ID)
	s.Metrics.ObserveWrite("update")
	fields := []zap.Field{
		zap.String("business_id", biz.ID.Hex()),
		zap.String("post_id", postID.Hex()),
		zap.Bool("rescheduled", edit.Reschedule),
	}
	if edit.Reschedule {
		fields = append(fields, zap.Time("scheduled_at", edit.ScheduledAt))
	}
	s.Log.Info("post updated", fields...)
	return toPostDTO(updated), nil
}

// Delete removes a post that has not been published.
func (s *Service) Delete(ctx context.Context, ownerID, postID primitive.ObjectID) error {
	biz, err := s.business(ctx, ownerID)
	if err != nil {
		return err
	}
	p, err := s.post(ctx, biz.ID, postID)
	if err != nil {
		return err
	}
	if p.IsPublished() {
		return ErrPublishedDelete
	}
	if err := s.Posts.DeleteForBusiness(ctx, biz.ID, postID); err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.invalidate(ctx, biz.ID)
	s.Metrics.ObserveWrite("delete")
	s.Log.Info("post deleted",
		zap.String("business_id", biz.ID.Hex()),
		zap.String("post_id", postID.Hex()),
		zap.String("status", p.Status))
	return nil
}

func (s *Service) business(ctx context.Context, ownerID primitive.ObjectID) (models.Business, error) {
	biz, err := s.Businesses.GetByOwner(ctx, ownerID)
	if errors.Is(err, businessstore.ErrNotFound) {
		return models.Business{}, ErrBusinessNotFound
	}
	if err != nil {
		return models.Business{}, fmt.Errorf("load business: %w", err)
	}
	return biz, nil
}

func (s *Service) post(ctx context.Context, businessID, postID primitive.ObjectID) (models.Post, error) {
	p, err := s.Posts.GetForBusiness(ctx, businessID, postID)
	if errors.Is(err, poststore.ErrNotFound) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("load post: %w", err)
	}
	return p, nil
}
