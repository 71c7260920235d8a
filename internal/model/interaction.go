package model

import "time"

const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Interaction 用户对帖子或评论的点赞记录，同一 (user, target_type, target_id) 只有一行，
// 取消点赞时翻转 Liked 而不是删除
type Interaction struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;uniqueIndex:idx_interactions_user_target,priority:1"`
	TargetType string `gorm:"type:varchar(16);not null;uniqueIndex:idx_interactions_user_target,priority:2;index:idx_interactions_target,priority:1"`
	TargetID   uint64 `gorm:"not null;uniqueIndex:idx_interactions_user_target,priority:3;index:idx_interactions_target,priority:2"`
	Liked      bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Interaction) TableName() string {
	return "interactions"
}
