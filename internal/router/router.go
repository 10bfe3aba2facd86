package router

import (
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/handlers"
	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/anonto42/pigstar/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	DB             *gorm.DB
	Feed           cache.FeedCache
	Verifier       middleware.IdentityVerifier
	Media          media.Store
	MaxUploadBytes int64
	Log            *zap.Logger
}

// SetupRoutes migrates the schema, wires services and registers every route.
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	log := deps.Log
	if err := repositories.AutoMigrate(deps.DB); err != nil {
		return err
	}
	log.Info("auto-migrations completed")

	feed := deps.Feed
	if feed == nil {
		feed = cache.Noop{}
	}

	// --- Services ---
	repos := services.NewRepositories(deps.DB)
	notifier := services.NewNotifier(repos.Notifications, log.Named("notifier"))
	toggles := services.NewToggleEngine(deps.DB, notifier, feed, log.Named("toggle"))
	identity := services.NewIdentityResolver(repos.Users, feed, log.Named("identity"))
	postService := services.NewPostService(deps.DB, repos, notifier, toggles, deps.Media, feed, log.Named("posts"))
	profileService := services.NewProfileService(repos, toggles, feed, log.Named("profiles"))
	notificationService := services.NewNotificationService(repos.Notifications, log.Named("notifications"))

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(deps.DB))

	api := e.Group("/api")
	api.Use(middleware.Session(deps.Verifier, identity, log.Named("session")))

	handlers.NewAuthHandler().RegisterAuthRoutes(api)
	handlers.NewUserHandler(profileService, log).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postService, log).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postService, log).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(postService, log).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(postService, log).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(profileService, log).RegisterFollowRoutes(api)
	handlers.NewNotificationHandler(notificationService, log).RegisterNotificationRoutes(api)
	handlers.NewUploadHandler(deps.Media, deps.MaxUploadBytes, log).RegisterUploadRoutes(api)

	log.Info("all routes configured")
	return nil
}
