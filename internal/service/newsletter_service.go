package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"strings"
	"time"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
}

type newsletterServiceImpl struct {
	newsletterRepo repository.NewsletterRepo
}

func NewNewsletterService(newsletterRepo repository.NewsletterRepo) NewsletterService {
	return &newsletterServiceImpl{newsletterRepo: newsletterRepo}
}

func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !util.ValidateVar(email, "required,email") {
		return nil, paramError("Invalid email address")
	}

	exists, err := s.newsletterRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	subscriber := &model.NewsletterSubscriber{
		Email:        email,
		SubscribedAt: time.Now(),
	}
	if err = s.newsletterRepo.CreateSubscriber(ctx, subscriber); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return subscriber, nil
}
