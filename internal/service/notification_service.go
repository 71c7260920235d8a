package service

import (
	"Inkwell/internal/pkg/mongo"
	"context"
	"errors"

	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type NotificationService interface {
	List(ctx context.Context, userID uint64, limit, offset int) ([]*mongo.Notification, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
}

func NewNotificationService(notificationRepo mongo.NotificationRepo) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uint64, limit, offset int) ([]*mongo.Notification, error) {
	if userID == 0 {
		return nil, unauthenticated("view notifications")
	}
	return s.notificationRepo.GetNotificationList(ctx, userID, int64(normalizeLimit(limit)), int64(max(offset, 0)))
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, unauthenticated("view notifications")
	}
	return s.notificationRepo.GetUnreadCount(ctx, userID)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	if userID == 0 {
		return unauthenticated("update notifications")
	}
	err := s.notificationRepo.MarkAsRead(ctx, userID, id)
	if errors.Is(err, mongoDB.ErrNoDocuments) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return unauthenticated("update notifications")
	}
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
