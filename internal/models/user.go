package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the internal account mirrored from the identity provider.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ExternalID  string    `json:"-" gorm:"type:varchar(128);uniqueIndex;not null"` // identity provider subject
	Username    string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// UserCompact is the author/actor summary embedded in posts, comments and notifications.
type UserCompact struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// UserCounts holds the relationship totals shown on a profile.
type UserCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

// Profile is a user together with its counts.
type Profile struct {
	User
	Counts UserCounts `json:"counts"`
}

// Suggestion is a user proposed for following.
type Suggestion struct {
	UserCompact
	Followers int64 `json:"followers"`
}

// ExternalIdentity is what the identity provider tells us about the caller.
type ExternalIdentity struct {
	ExternalID   string
	FirstName    string
	LastName     string
	Email        string
	AvatarURL    string
	UsernameHint string
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	Bio         string `json:"bio" validate:"omitempty,max=280"`
	Location    string `json:"location" validate:"omitempty,max=80"`
	Website     string `json:"website" validate:"omitempty,url,max=200"`
}

// NewID returns a time-ordered identifier, so ids also sort by insertion.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
