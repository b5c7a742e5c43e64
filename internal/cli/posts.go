package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/postdesk/internal/app/postfeed"
	businessstore "github.com/dalemusser/postdesk/internal/app/store/businesses"
	poststore "github.com/dalemusser/postdesk/internal/app/store/posts"
	socialaccountstore "github.com/dalemusser/postdesk/internal/app/store/socialaccounts"
	"github.com/dalemusser/postdesk/internal/app/system/cache"
	"github.com/dalemusser/postdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Summary is the JSON printed by the posts command.
type Summary struct {
	Owner      string             `json:"owner"`
	Business   string             `json:"business,omitempty"`
	Gate       GateReport         `json:"gate"`
	Counts     map[string]int64   `json:"counts"`
	SyncErrors []models.SyncError `json:"sync_errors"`
}

type listSource interface {
	List(ctx context.Context, ownerID primitive.ObjectID) (postfeed.ListDTO, error)
}

type businessLookup interface {
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.Business, error)
}

type postCounter interface {
	CountByStatus(ctx context.Context, businessID primitive.ObjectID) (map[string]int64, error)
}

// summarize reads the same list the dashboard shows and counts posts per
// status. An owner without a business yields zero counts.
func summarize(ctx context.Context, ownerID primitive.ObjectID, feed listSource, biz businessLookup, counter postCounter) (Summary, error) {
	list, err := feed.List(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("list posts: %w", err)
	}

	s := Summary{
		Owner:      ownerID.Hex(),
		Gate:       newGateReport(list.Linked, list.SyncErrors),
		SyncErrors: list.SyncErrors,
		Counts: map[string]int64{
			models.PostStatusFailed:    0,
			models.PostStatusScheduled: 0,
			models.PostStatusPublished: 0,
		},
	}
	if s.SyncErrors == nil {
		s.SyncErrors = []models.SyncError{}
	}

	b, err := biz.GetByOwner(ctx, ownerID)
	if errors.Is(err, businessstore.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("load business: %w", err)
	}
	s.Business = b.Name

	counts, err := counter.CountByStatus(ctx, b.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("count posts: %w", err)
	}
	for status, n := range counts {
		s.Counts[status] = n
	}
	return s, nil
}

func newPostsCommand(opts *options) *cobra.Command {
	var (
		mongoURI string
		database string
		owner    string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Print the dashboard summary for a business owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := primitive.ObjectIDFromHex(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner %q: %w", owner, err)
			}
			if err := wafflemongo.ValidateURI(mongoURI); err != nil {
				return fmt.Errorf("invalid --mongo-uri: %w", err)
			}

			log := opts.logger()
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(mongoURI))
			if err != nil {
				return fmt.Errorf("mongo connect: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()
			log.Debug("connected to MongoDB", zap.String("database", database))

			db := client.Database(database)
			biz := businessstore.New(db)
			posts := poststore.New(db)
			feed := postfeed.New(biz, socialaccountstore.New(db), posts, cache.Noop{}, 0, nil, log)

			s, err := summarize(ctx, ownerID, feed, biz, posts)
			if err != nil {
				return err
			}
			return writeJSON(opts, s)
		},
	}
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.Flags().StringVar(&database, "database", "postdesk", "MongoDB database name")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner user ID (ObjectID hex)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall timeout")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
