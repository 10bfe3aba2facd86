package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	)
}

// EdgeRepository stores a relationship uniquely keyed by an ordered pair of ids.
type EdgeRepository interface {
	// Insert creates the edge and reports false when it already existed.
	Insert(ctx context.Context, from, to string) (bool, error)
	// Remove deletes the edge and reports false when there was nothing to delete.
	Remove(ctx context.Context, from, to string) (bool, error)
	// CountTo returns the number of edges pointing at to.
	CountTo(ctx context.Context, to string) (int64, error)
}

// After keeps the rows of table that sort strictly after the cursor row when
// ordered newest first. A cursor whose row no longer exists matches nothing.
func After(table, cursor string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == "" {
			return db
		}
		anchor := fmt.Sprintf("(SELECT created_at FROM %s WHERE id = ?)", table)
		cond := fmt.Sprintf("(%[1]s.created_at < %[2]s OR (%[1]s.created_at = %[2]s AND %[1]s.id < ?))", table, anchor)
		return db.Where(cond, cursor, cursor, cursor)
	}
}

// NewestFirst orders by creation time with the id as tiebreak.
func NewestFirst(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// conflict turns a unique-index rejection into a ConflictError.
func conflict(err error, resource string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict(resource + " already exists")
	}
	return err
}

func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, id)
	}
	return err
}
