package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
)

// Notification represents a user notification
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Type        NotificationType `json:"type" gorm:"size:16;not null"`
	RecipientID string           `json:"recipient_id" gorm:"type:varchar(36);not null;index"`
	ActorID     string           `json:"actor_id" gorm:"type:varchar(36);not null"`
	PostID      *string          `json:"post_id,omitempty" gorm:"type:varchar(36);index"`
	CommentID   *string          `json:"comment_id,omitempty" gorm:"type:varchar(36)"`
	Read        bool             `json:"read" gorm:"not null;default:false"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`

	Actor   User     `json:"-" gorm:"foreignKey:ActorID"`
	Post    *Post    `json:"-" gorm:"foreignKey:PostID"`
	Comment *Comment `json:"-" gorm:"foreignKey:CommentID"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

type PostPreview struct {
	ID      string   `json:"id"`
	Content *string  `json:"content"`
	Images  []string `json:"images"`
}

type CommentPreview struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationView is a notification with actor info and target previews.
type NotificationView struct {
	Notification
	Actor   UserCompact     `json:"actor"`
	Post    *PostPreview    `json:"post,omitempty"`
	Comment *CommentPreview `json:"comment,omitempty"`
}

func NewNotificationView(n Notification) NotificationView {
	view := NotificationView{Notification: n, Actor: n.Actor.ToCompact()}
	if n.Post != nil {
		view.Post = &PostPreview{ID: n.Post.ID, Content: n.Post.Content, Images: n.Post.Images}
	}
	if n.Comment != nil {
		view.Comment = &CommentPreview{ID: n.Comment.ID, Content: n.Comment.Content, CreatedAt: n.Comment.CreatedAt}
	}
	return view
}

// MarkReadRequest lists the notifications to flag as read.
type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}
