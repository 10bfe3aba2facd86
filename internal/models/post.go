package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostImages is the largest image batch a post may carry.
const MaxPostImages = 9

// Post is a status update with optional images and mood.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index;not null"`
	Content   *string   `json:"content"`
	Images    []string  `json:"images" gorm:"serializer:json"`
	Mood      *string   `json:"mood,omitempty" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Author   User      `json:"-" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID"`
	Likes    []Like    `json:"-" gorm:"foreignKey:PostID"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// PostCounts are the aggregate totals of a post.
type PostCounts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// ImageRendition is one post image with its CDN variants.
type ImageRendition struct {
	URL       string `json:"url"`
	Optimized string `json:"optimized"`
	Blurred   string `json:"blurred"`
}

// PostView is a post enriched with its author, comments and likers.
type PostView struct {
	Post
	Author     UserCompact      `json:"author"`
	Comments   []CommentView    `json:"comments"`
	LikedBy    []string         `json:"liked_by"`
	Counts     PostCounts       `json:"counts"`
	Renditions []ImageRendition `json:"renditions"`
}

// NewPostView builds the view from a post loaded with its relations.
func NewPostView(p Post) PostView {
	view := PostView{
		Post:       p,
		Author:     p.Author.ToCompact(),
		Comments:   make([]CommentView, len(p.Comments)),
		LikedBy:    make([]string, len(p.Likes)),
		Counts:     PostCounts{Likes: len(p.Likes), Comments: len(p.Comments)},
		Renditions: []ImageRendition{},
	}
	for i, c := range p.Comments {
		view.Comments[i] = NewCommentView(c)
	}
	for i, l := range p.Likes {
		view.LikedBy[i] = l.UserID
	}
	return view
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string   `json:"content" validate:"max=2000"`
	Images  []string `json:"images" validate:"max=9,dive,url"`
	Mood    *string  `json:"mood,omitempty" validate:"omitempty,max=32"`
}
