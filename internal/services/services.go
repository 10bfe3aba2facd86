package services

import (
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"gorm.io/gorm"
)

// Repositories bundles the data access layer shared by the services.
type Repositories struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Likes         repositories.LikeRepository
	Follows       repositories.FollowRepository
	Notifications repositories.NotificationRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         repositories.NewPostgresUserRepository(db),
		Posts:         repositories.NewPostgresPostRepository(db),
		Comments:      repositories.NewPostgresCommentRepository(db),
		Likes:         repositories.NewPostgresLikeRepository(db),
		Follows:       repositories.NewPostgresFollowRepository(db),
		Notifications: repositories.NewPostgresNotificationRepository(db),
	}
}
