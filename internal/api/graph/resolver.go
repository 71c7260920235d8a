package graph

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/service"
	"context"
)

// Resolver GraphQL 根 resolver，Query 与 Mutation 共用
type Resolver struct {
	userSvc         service.UserService
	postSvc         service.PostService
	categorySvc     service.CategoryService
	commentSvc      service.CommentService
	interactionSvc  service.InteractionService
	mediaSvc        service.MediaService
	newsletterSvc   service.NewsletterService
	notificationSvc service.NotificationService
}

func NewResolver(
	userSvc service.UserService,
	postSvc service.PostService,
	categorySvc service.CategoryService,
	commentSvc service.CommentService,
	interactionSvc service.InteractionService,
	mediaSvc service.MediaService,
	newsletterSvc service.NewsletterService,
	notificationSvc service.NotificationService,
) *Resolver {
	return &Resolver{
		userSvc:         userSvc,
		postSvc:         postSvc,
		categorySvc:     categorySvc,
		commentSvc:      commentSvc,
		interactionSvc:  interactionSvc,
		mediaSvc:        mediaSvc,
		newsletterSvc:   newsletterSvc,
		notificationSvc: notificationSvc,
	}
}

// currentUser 未登录时返回 0
func currentUser(ctx context.Context) uint64 {
	id, _ := ctx.Value(consts.UserIDKey).(uint64)
	return id
}

func currentToken(ctx context.Context) string {
	token, _ := ctx.Value(consts.TokenKey).(string)
	return token
}

// toID 非正数视为不存在的 ID
func toID(v int32) uint64 {
	if v <= 0 {
		return 0
	}
	return uint64(v)
}

func toInt(v *int32) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func toIDs(vs []int32) []uint64 {
	ids := make([]uint64, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, toID(v))
	}
	return ids
}
