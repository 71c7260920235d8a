package dto

import (
	"Inkwell/internal/pkg/mongo"
	"time"
)

type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   uint64    `json:"actorId"`
	TargetID  uint64    `json:"targetId"`
	PostID    uint64    `json:"postId,omitempty"`
	Snippet   string    `json:"snippet,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToNotificationDTO(n *mongo.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID.Hex(),
		Type:      n.Type,
		ActorID:   n.ActorID,
		TargetID:  n.TargetID,
		PostID:    n.PostID,
		Snippet:   n.Snippet,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationDTOs(list []*mongo.Notification) []*NotificationDTO {
	out := make([]*NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}
