package dto

import (
	"Inkwell/internal/model"
	"time"
)

type SubscriberDTO struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

func ToSubscriberDTO(s *model.NewsletterSubscriber) *SubscriberDTO {
	return &SubscriberDTO{ID: s.ID, Email: s.Email, SubscribedAt: s.SubscribedAt}
}
