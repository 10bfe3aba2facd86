package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/metrics"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"github.com/anonto42/pigstar/backend/pkg/media"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostService implements post creation, feeds, likes, comments and deletion.
type PostService struct {
	db       *gorm.DB
	repos    Repositories
	notifier *Notifier
	toggles  *ToggleEngine
	like     EdgeKind
	media    media.Store
	feed     cache.FeedCache
	log      *zap.Logger
}

func NewPostService(db *gorm.DB, repos Repositories, notifier *Notifier, toggles *ToggleEngine, store media.Store, feed cache.FeedCache, log *zap.Logger) *PostService {
	return &PostService{
		db:       db,
		repos:    repos,
		notifier: notifier,
		toggles:  toggles,
		like:     LikeKind(repos.Posts, repos.Likes),
		media:    store,
		feed:     feed,
		log:      log,
	}
}

// CreatePost stores a post by authorID. A post needs text or at least one image.
func (s *PostService) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.PostView, error) {
	if authorID == "" {
		return nil, &apperrors.UnauthenticatedError{}
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Images) == 0 {
		return nil, apperrors.Invalid("content", "post must have content or images")
	}
	if len(req.Images) > models.MaxPostImages {
		return nil, apperrors.Invalid("images", fmt.Sprintf("at most %d images allowed", models.MaxPostImages))
	}

	post := &models.Post{AuthorID: authorID, Images: req.Images, Mood: req.Mood}
	if content != "" {
		post.Content = &content
	}
	if err := s.repos.Posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	invalidateFeed(ctx, s.feed, s.log)

	loaded, err := s.repos.Posts.GetPostWithRelations(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	view := postView(*loaded)
	s.log.Info("post created", zap.String("post_id", post.ID), zap.String("author_id", authorID))
	return &view, nil
}

// GetPosts returns the global feed. The first default-sized page is cached.
func (s *PostService) GetPosts(ctx context.Context, cursor string, limit int) (Page[models.PostView], error) {
	limit = NormalizeLimit(limit)
	if cursor != "" {
		return s.listPosts(ctx, repositories.PostFilter{}, cursor, limit)
	}

	key := fmt.Sprintf("posts:first:%d", limit)
	var page Page[models.PostView]
	hit, err := s.feed.Get(ctx, key, &page)
	if err != nil {
		s.log.Warn("feed cache read failed", zap.Error(err))
	}
	if hit {
		metrics.FeedCacheHitsTotal.Inc()
		return page, nil
	}
	metrics.FeedCacheMissesTotal.Inc()

	page, err = s.listPosts(ctx, repositories.PostFilter{}, "", limit)
	if err != nil {
		return page, err
	}
	if err := s.feed.Set(ctx, key, page); err != nil {
		s.log.Warn("feed cache write failed", zap.Error(err))
	}
	return page, nil
}

// GetUserPosts returns the posts authored by userID.
func (s *PostService) GetUserPosts(ctx context.Context, userID, cursor string, limit int) (Page[models.PostView], error) {
	return s.listPosts(ctx, repositories.PostFilter{AuthorID: userID, CommentsOldestFirst: true}, cursor, NormalizeLimit(limit))
}

// GetUserLikedPosts returns the posts userID has liked.
func (s *PostService) GetUserLikedPosts(ctx context.Context, userID, cursor string, limit int) (Page[models.PostView], error) {
	return s.listPosts(ctx, repositories.PostFilter{LikedBy: userID, CommentsOldestFirst: true}, cursor, NormalizeLimit(limit))
}

func (s *PostService) listPosts(ctx context.Context, filter repositories.PostFilter, cursor string, limit int) (Page[models.PostView], error) {
	rows, err := s.repos.Posts.ListPosts(ctx, filter, cursor, limit+1)
	if err != nil {
		return Page[models.PostView]{}, fmt.Errorf("list posts: %w", err)
	}
	return BuildPage(rows, limit, func(p models.Post) string { return p.ID }, postView), nil
}

// postView attaches the optimized and blurred delivery variants of each image.
func postView(p models.Post) models.PostView {
	view := models.NewPostView(p)
	for _, u := range p.Images {
		view.Renditions = append(view.Renditions, models.ImageRendition{
			URL:       u,
			Optimized: media.OptimizedURL(u),
			Blurred:   media.BlurredURL(u),
		})
	}
	return view
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.PostView, error) {
	post, err := s.repos.Posts.GetPostWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	view := postView(*post)
	return &view, nil
}

// ToggleLike likes or unlikes postID on behalf of userID.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (ToggleResult, error) {
	return s.toggles.Toggle(ctx, s.like, userID, postID)
}

// CreateComment adds a comment and notifies the post author in one transaction.
func (s *PostService) CreateComment(ctx context.Context, authorID, postID, content string) (*models.CommentView, error) {
	if authorID == "" {
		return nil, &apperrors.UnauthenticatedError{}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Invalid("content", "comment must not be empty")
	}

	comment := &models.Comment{PostID: postID, AuthorID: authorID, Content: content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.repos.Posts.WithTx(tx).GetPostByID(ctx, postID)
		if err != nil {
			return err
		}
		if err := s.repos.Comments.WithTx(tx).CreateComment(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return s.notifier.Notify(ctx, tx, &models.Notification{
			Type:        models.NotificationComment,
			RecipientID: post.AuthorID,
			ActorID:     authorID,
			PostID:      &post.ID,
			CommentID:   &comment.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateFeed(ctx, s.feed, s.log)
	view := models.NewCommentView(*comment)
	return &view, nil
}

// DeletePost removes a post owned by actorID together with its likes,
// comments and notifications. Remote media is deleted first on a best-effort basis.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	if actorID == "" {
		return &apperrors.UnauthenticatedError{}
	}
	post, err := s.repos.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return &apperrors.UnauthorizedError{Action: "delete this post"}
	}

	s.deleteMedia(ctx, post)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repos.Posts.WithTx(tx).DeletePost(ctx, postID)
	})
	if err != nil {
		return err
	}

	invalidateFeed(ctx, s.feed, s.log)
	s.log.Info("post deleted", zap.String("post_id", postID), zap.String("author_id", actorID))
	return nil
}

func (s *PostService) deleteMedia(ctx context.Context, post *models.Post) {
	for _, imageURL := range post.Images {
		key, ok := s.media.KeyFromURL(imageURL)
		if !ok {
			continue
		}
		if err := s.media.Delete(ctx, key); err != nil {
			metrics.MediaOperationsTotal.WithLabelValues("delete", "error").Inc()
			s.log.Warn("media delete failed",
				zap.String("post_id", post.ID),
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		metrics.MediaOperationsTotal.WithLabelValues("delete", "ok").Inc()
	}
}
