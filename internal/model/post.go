package model

import (
	"time"
)

type Post struct {
	ID         uint64    `gorm:"primaryKey"`
	AuthorID   uint64    `gorm:"not null;index:idx_posts_author_id" json:"author_id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CoverImage *string   `gorm:"type:varchar(512)" json:"cover_image"`
	Published  bool      `gorm:"not null;default:false;index:idx_posts_published_created" json:"published"`
	Likes      int64     `gorm:"not null;default:0" json:"likes"`
	Shares     int64     `gorm:"not null;default:0" json:"shares"`
	CreatedAt  time.Time `gorm:"index:idx_posts_published_created" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联关系
	Author     User       `gorm:"foreignKey:AuthorID;references:ID"`
	Categories []Category `gorm:"many2many:post_categories;"`
	Images     []Image    `gorm:"foreignKey:PostID;references:ID"`
	Comments   []Comment  `gorm:"foreignKey:PostID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}
