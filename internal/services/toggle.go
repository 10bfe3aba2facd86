package services

import (
	"context"
	"fmt"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/metrics"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ToggleResult is the state of an edge after a toggle. Count is the number of
// edges pointing at the target: likes of a post or followers of a user.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// EdgeKind describes one toggleable relationship.
type EdgeKind struct {
	Name             string
	NotificationType models.NotificationType
	Edges            func(tx *gorm.DB) repositories.EdgeRepository
	// Target checks the target inside tx and returns who to notify on creation.
	Target func(ctx context.Context, tx *gorm.DB, actorID, targetID string) (recipientID string, postID *string, err error)
}

// LikeKind toggles (user, post) likes and notifies the post author.
func LikeKind(posts repositories.PostRepository, likes repositories.LikeRepository) EdgeKind {
	return EdgeKind{
		Name:             "like",
		NotificationType: models.NotificationLike,
		Edges: func(tx *gorm.DB) repositories.EdgeRepository {
			return likes.WithTx(tx)
		},
		Target: func(ctx context.Context, tx *gorm.DB, actorID, postID string) (string, *string, error) {
			post, err := posts.WithTx(tx).GetPostByID(ctx, postID)
			if err != nil {
				return "", nil, err
			}
			return post.AuthorID, &post.ID, nil
		},
	}
}

// FollowKind toggles (follower, following) edges and notifies the followed user.
func FollowKind(users repositories.UserRepository, follows repositories.FollowRepository) EdgeKind {
	return EdgeKind{
		Name:             "follow",
		NotificationType: models.NotificationFollow,
		Edges: func(tx *gorm.DB) repositories.EdgeRepository {
			return follows.WithTx(tx)
		},
		Target: func(ctx context.Context, tx *gorm.DB, actorID, targetID string) (string, *string, error) {
			if actorID == targetID {
				return "", nil, apperrors.Invalid("user", "cannot follow self")
			}
			if _, err := users.WithTx(tx).GetUserByID(ctx, targetID); err != nil {
				return "", nil, err
			}
			return targetID, nil, nil
		},
	}
}

// ToggleEngine flips relationship edges atomically.
type ToggleEngine struct {
	db       *gorm.DB
	notifier *Notifier
	feed     cache.FeedCache
	log      *zap.Logger
}

func NewToggleEngine(db *gorm.DB, notifier *Notifier, feed cache.FeedCache, log *zap.Logger) *ToggleEngine {
	return &ToggleEngine{db: db, notifier: notifier, feed: feed, log: log}
}

// Toggle removes the (actor, target) edge if present and creates it otherwise.
// Creation notifies the recipient in the same transaction. A concurrent
// creation of the same edge is treated as success.
func (e *ToggleEngine) Toggle(ctx context.Context, kind EdgeKind, actorID, targetID string) (ToggleResult, error) {
	if actorID == "" {
		return ToggleResult{}, &apperrors.UnauthenticatedError{}
	}

	var result ToggleResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipientID, postID, err := kind.Target(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}

		edges := kind.Edges(tx)
		removed, err := edges.Remove(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("remove %s: %w", kind.Name, err)
		}
		if !removed {
			created, err := edges.Insert(ctx, actorID, targetID)
			if err != nil {
				return fmt.Errorf("insert %s: %w", kind.Name, err)
			}
			result.Active = true
			if created {
				err = e.notifier.Notify(ctx, tx, &models.Notification{
					Type:        kind.NotificationType,
					RecipientID: recipientID,
					ActorID:     actorID,
					PostID:      postID,
				})
				if err != nil {
					return err
				}
			}
		}

		result.Count, err = edges.CountTo(ctx, targetID)
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}

	state := "removed"
	if result.Active {
		state = "active"
	}
	metrics.TogglesTotal.WithLabelValues(kind.Name, state).Inc()
	invalidateFeed(ctx, e.feed, e.log)
	return result, nil
}

func invalidateFeed(ctx context.Context, feed cache.FeedCache, log *zap.Logger) {
	if err := feed.Invalidate(ctx); err != nil {
		log.Warn("feed cache invalidation failed", zap.Error(err))
	}
}
