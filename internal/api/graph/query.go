package graph

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/service"
	"context"
	"errors"
)

type pageArgs struct {
	Limit  *int32
	Offset *int32
}

type idArgs struct {
	ID int32
}

type userIDArgs struct {
	UserID int32
}

type postIDArgs struct {
	PostID int32
}

func (r *Resolver) Hello() string {
	return "Hello from the GraphQL server!"
}

// Me 未登录时返回 null
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	userID := currentUser(ctx)
	if userID == 0 {
		return nil, nil
	}
	user, err := r.userSvc.GetUser(ctx, userID)
	if errors.Is(err, service.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(r, dto.ToUserDTO(user)), nil
}

func (r *Resolver) GetUserByID(ctx context.Context, args idArgs) (*userResolver, error) {
	user, err := r.userSvc.GetUser(ctx, toID(args.ID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(r, dto.ToUserDTO(user)), nil
}

// GetUserStats 计数字段由 User 的字段 resolver 按需计算
func (r *Resolver) GetUserStats(ctx context.Context, args idArgs) (*userResolver, error) {
	return r.GetUserByID(ctx, args)
}

func (r *Resolver) GetFollowers(ctx context.Context, args struct {
	UserID int32
	Limit  *int32
	Offset *int32
}) ([]*userResolver, error) {
	users, err := r.interactionSvc.GetFollowers(ctx, toID(args.UserID), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUsers(r, users), nil
}

func (r *Resolver) GetFollowing(ctx context.Context, args struct {
	UserID int32
	Limit  *int32
	Offset *int32
}) ([]*userResolver, error) {
	users, err := r.interactionSvc.GetFollowing(ctx, toID(args.UserID), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUsers(r, users), nil
}

func (r *Resolver) IsFollowing(ctx context.Context, args userIDArgs) (bool, error) {
	following, err := r.interactionSvc.IsFollowing(ctx, currentUser(ctx), toID(args.UserID))
	return following, wrapErr(ctx, err)
}

func (r *Resolver) GetPosts(ctx context.Context, args struct {
	CategoryID *int32
	Published  *bool
	Limit      *int32
	Offset     *int32
}) ([]*postResolver, error) {
	in := &service.ListPostsInput{
		Published: args.Published,
		Limit:     toInt(args.Limit),
		Offset:    toInt(args.Offset),
	}
	if args.CategoryID != nil {
		id := toID(*args.CategoryID)
		in.CategoryID = &id
	}
	posts, err := r.postSvc.ListPosts(ctx, in)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(r, dto.ToPostDTOs(posts)), nil
}

func (r *Resolver) GetRecentPosts(ctx context.Context, args struct{ Limit *int32 }) ([]*postResolver, error) {
	posts, err := r.postSvc.RecentPosts(ctx, toInt(args.Limit))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(r, dto.ToPostDTOs(posts)), nil
}

// GetPostByID 帖子不存在时返回 null
func (r *Resolver) GetPostByID(ctx context.Context, args idArgs) (*postResolver, error) {
	post, err := r.postSvc.GetPost(ctx, toID(args.ID))
	if errors.Is(err, service.ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) GetPostsByUser(ctx context.Context, args struct {
	UserID int32
	Limit  *int32
	Offset *int32
}) ([]*postResolver, error) {
	posts, err := r.postSvc.PostsByUser(ctx, toID(args.UserID), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(r, dto.ToPostDTOs(posts)), nil
}

func (r *Resolver) GetPostsByCategory(ctx context.Context, args struct {
	CategoryID int32
	Limit      *int32
	Offset     *int32
}) ([]*postResolver, error) {
	posts, err := r.postSvc.PostsByCategory(ctx, toID(args.CategoryID), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(r, dto.ToPostDTOs(posts)), nil
}

func (r *Resolver) SearchPosts(ctx context.Context, args struct {
	Query  string
	Limit  *int32
	Offset *int32
}) ([]*postResolver, error) {
	posts, err := r.postSvc.SearchPosts(ctx, args.Query, toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(r, dto.ToPostDTOs(posts)), nil
}

// IsPostLiked 未登录时为 false
func (r *Resolver) IsPostLiked(ctx context.Context, args postIDArgs) (bool, error) {
	liked, err := r.interactionSvc.IsPostLiked(ctx, currentUser(ctx), toID(args.PostID))
	return liked, wrapErr(ctx, err)
}

func (r *Resolver) GetPostLikes(ctx context.Context, args postIDArgs) (int32, error) {
	likes, err := r.interactionSvc.GetPostLikes(ctx, toID(args.PostID))
	if err != nil {
		return 0, wrapErr(ctx, err)
	}
	return int32(likes), nil
}

func (r *Resolver) GetCategories(ctx context.Context) ([]*categoryResolver, error) {
	categories, err := r.categorySvc.List(ctx)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newCategories(r, dto.ToCategoryDTOs(categories)), nil
}

func (r *Resolver) GetCategoryBySlug(ctx context.Context, args struct{ Slug string }) (*categoryResolver, error) {
	category, err := r.categorySvc.GetBySlug(ctx, args.Slug)
	if errors.Is(err, service.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newCategory(r, dto.ToCategoryDTO(category)), nil
}

func (r *Resolver) GetCommentsByPost(ctx context.Context, args struct {
	PostID int32
	Limit  *int32
	Offset *int32
}) ([]*commentResolver, error) {
	comments, err := r.commentSvc.ListByPost(ctx, toID(args.PostID), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComments(r, dto.ToCommentDTOs(comments)), nil
}

func (r *Resolver) GetComment(ctx context.Context, args idArgs) (*commentResolver, error) {
	comment, err := r.commentSvc.Get(ctx, toID(args.ID))
	if errors.Is(err, service.ErrCommentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) GetNotifications(ctx context.Context, args pageArgs) ([]*notificationResolver, error) {
	list, err := r.notificationSvc.List(ctx, currentUser(ctx), toInt(args.Limit), toInt(args.Offset))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := make([]*notificationResolver, 0, len(list))
	for _, n := range dto.ToNotificationDTOs(list) {
		out = append(out, &notificationResolver{r: r, n: n})
	}
	return out, nil
}

func (r *Resolver) GetUnreadNotificationCount(ctx context.Context) (int32, error) {
	count, err := r.notificationSvc.UnreadCount(ctx, currentUser(ctx))
	if err != nil {
		return 0, wrapErr(ctx, err)
	}
	return int32(count), nil
}
