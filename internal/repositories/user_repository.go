package repositories

import (
	"context"

	"github.com/anonto42/pigstar/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, exceptExternalID string) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	GetCounts(ctx context.Context, id string) (models.UserCounts, error)
	GetSuggestions(ctx context.Context, userID string, limit int) ([]models.Suggestion, error)
}

// PostgresUserRepository implements UserRepository with GORM
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) WithTx(tx *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: tx}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return conflict(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, notFound(err, "user", externalID)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &user, nil
}

// UsernameTaken reports whether a user other than exceptExternalID owns username.
func (r *PostgresUserRepository) UsernameTaken(ctx context.Context, username, exceptExternalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND external_id <> ?", username, exceptExternalID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return conflict(r.db.WithContext(ctx).Save(user).Error, "username")
}

func (r *PostgresUserRepository) GetCounts(ctx context.Context, id string) (models.UserCounts, error) {
	var counts models.UserCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&counts.Followers).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&counts.Following).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Post{}).Where("author_id = ?", id).Count(&counts.Posts).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// GetSuggestions returns users other than userID that userID does not follow yet.
func (r *PostgresUserRepository) GetSuggestions(ctx context.Context, userID string, limit int) ([]models.Suggestion, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id <> ?", userID).
		Where("id NOT IN (?)", db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, len(users))
	for i := range users {
		var followers int64
		if err := db.Model(&models.Follow{}).Where("following_id = ?", users[i].ID).Count(&followers).Error; err != nil {
			return nil, err
		}
		suggestions[i] = models.Suggestion{UserCompact: users[i].ToCompact(), Followers: followers}
	}
	return suggestions, nil
}
