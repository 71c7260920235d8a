package repository

import (
	"Inkwell/internal/model"
	"context"

	"gorm.io/gorm"
)

type NewsletterRepo interface {
	CreateSubscriber(ctx context.Context, subscriber *model.NewsletterSubscriber) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type NewsletterRepoImpl struct {
	db *gorm.DB
}

func NewNewsletterRepo(db *gorm.DB) NewsletterRepo {
	return &NewsletterRepoImpl{db: db}
}

func (s *NewsletterRepoImpl) CreateSubscriber(ctx context.Context, subscriber *model.NewsletterSubscriber) error {
	return s.db.WithContext(ctx).Create(subscriber).Error
}

func (s *NewsletterRepoImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.NewsletterSubscriber{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
