package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow represents an Instagram-style follow relationship
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"follower_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair"`
	FollowingID string    `json:"following_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}
