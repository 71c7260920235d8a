package model

import "time"

type NewsletterSubscriber struct {
	ID           uint64    `gorm:"primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_subscriber_email"`
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
