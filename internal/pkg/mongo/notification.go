package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 站内通知
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者
	ActorID    uint64             `bson:"actor_id" json:"actorId"`       // 动作发起者
	Type       string             `bson:"type" json:"type"`              // like_post / like_comment / share_post / follow_user
	TargetID   uint64             `bson:"target_id" json:"targetId"`
	PostID     uint64             `bson:"post_id,omitempty" json:"postId,omitempty"`
	Snippet    string             `bson:"snippet,omitempty" json:"snippet,omitempty"` // 标题或评论片段
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
