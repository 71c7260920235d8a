package model

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_comments_post_id" json:"postId"`
	AuthorID  uint64    `gorm:"not null;index:idx_comments_author_id" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	Post   Post `gorm:"foreignKey:PostID;references:ID" json:"-"`

	// LikedBy 由 interactions 中 liked=true 的行推导，不落库
	LikedBy []uint64 `gorm:"-" json:"likedBy"`
}

func (Comment) TableName() string {
	return "comments"
}
