package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database private to the test.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user whose external id and username derive from name.
func SeedUser(tb testing.TB, db *gorm.DB, name string) *models.User {
	tb.Helper()
	user := &models.User{
		ExternalID:  "ext-" + name,
		Username:    name,
		Email:       name + "@example.com",
		DisplayName: name,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

// SeedPosts inserts n posts by author, one second apart, oldest first.
func SeedPosts(tb testing.TB, db *gorm.DB, authorID string, n int, start time.Time) []models.Post {
	tb.Helper()
	posts := make([]models.Post, n)
	for i := range posts {
		content := fmt.Sprintf("post %d", i)
		posts[i] = models.Post{
			AuthorID:  authorID,
			Content:   &content,
			CreatedAt: start.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&posts[i]).Error; err != nil {
			tb.Fatalf("seed post %d: %v", i, err)
		}
	}
	return posts
}
