package repositories

import (
	"context"

	"github.com/anonto42/pigstar/backend/internal/models"
	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Empty fields are ignored.
type PostFilter struct {
	AuthorID string
	LikedBy  string
	// CommentsOldestFirst loads comments in conversation order instead of newest first.
	CommentsOldestFirst bool
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostWithRelations(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns up to limit posts after cursor, newest first, with relations loaded.
	ListPosts(ctx context.Context, filter PostFilter, cursor string, limit int) ([]models.Post, error)
	// DeletePost removes the post and every comment, like and notification referencing it.
	DeletePost(ctx context.Context, id string) error
}

// PostgresPostRepository implements PostRepository with GORM
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) WithTx(tx *gorm.DB) PostRepository {
	return &PostgresPostRepository{db: tx}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return relations(false)(db)
}

func relations(commentsOldestFirst bool) func(*gorm.DB) *gorm.DB {
	order := "DESC"
	if commentsOldestFirst {
		order = "ASC"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("Author").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at " + order).Order("comments.id " + order)
			}).
			Preload("Comments.Author").
			Preload("Likes")
	}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, notFound(err, "post", id)
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostWithRelations(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Scopes(withRelations).Where("posts.id = ?", id).First(&post).Error; err != nil {
		return nil, notFound(err, "post", id)
	}
	return &post, nil
}

func (r *PostgresPostRepository) ListPosts(ctx context.Context, filter PostFilter, cursor string, limit int) ([]models.Post, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Post{}).Scopes(relations(filter.CommentsOldestFirst), After("posts", cursor), NewestFirst("posts"))
	if filter.AuthorID != "" {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.LikedBy != "" {
		query = query.Where("posts.id IN (?)", db.Model(&models.Like{}).Select("post_id").Where("user_id = ?", filter.LikedBy))
	}

	var posts []models.Post
	if err := query.Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) DeletePost(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "post", id)
	}
	return nil
}
