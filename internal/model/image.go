package model

import "time"

// Image 帖子配图，按 SortOrder 升序展示
type Image struct {
	ID        uint64  `gorm:"primaryKey"`
	PostID    uint64  `gorm:"not null;index:idx_images_post_order,priority:1"`
	URL       string  `gorm:"type:varchar(512);not null"`
	Alt       *string `gorm:"type:varchar(255)"`
	Caption   *string `gorm:"type:varchar(512)"`
	SortOrder int     `gorm:"not null;default:0;index:idx_images_post_order,priority:2"`
	CreatedAt time.Time
}

func (Image) TableName() string {
	return "images"
}
