package graph

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/service"
	"context"
)

type imageInput struct {
	URL     string
	Alt     *string
	Caption *string
	Order   *int32
}

func toImageInputs(in []imageInput) []service.ImageInput {
	out := make([]service.ImageInput, 0, len(in))
	for _, img := range in {
		item := service.ImageInput{URL: img.URL, Alt: img.Alt, Caption: img.Caption}
		if img.Order != nil {
			order := int(*img.Order)
			item.Order = &order
		}
		out = append(out, item)
	}
	return out
}

func (r *Resolver) authPayload(result *service.AuthResult) *authPayload {
	return &authPayload{Token: result.Token, User: newUser(r, dto.ToUserDTO(result.User))}
}

func (r *Resolver) Register(ctx context.Context, args struct {
	Email    string
	Password string
	Name     *string
}) (*authPayload, error) {
	in := &service.RegisterInput{Email: args.Email, Password: args.Password}
	if args.Name != nil {
		in.Name = *args.Name
	}
	result, err := r.userSvc.Register(ctx, in)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return r.authPayload(result), nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authPayload, error) {
	result, err := r.userSvc.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return r.authPayload(result), nil
}

// Logout 将当前 token 加入黑名单
func (r *Resolver) Logout(ctx context.Context) (bool, error) {
	if err := r.userSvc.Logout(ctx, currentToken(ctx)); err != nil {
		return false, wrapErr(ctx, err)
	}
	return true, nil
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct {
	ID     int32
	Name   *string
	Bio    *string
	Avatar *string
}) (*userResolver, error) {
	userID := currentUser(ctx)
	if userID == 0 {
		return nil, wrapErr(ctx, service.ErrUnauthenticated)
	}
	if toID(args.ID) != userID {
		return nil, wrapErr(ctx, service.ErrForbidden)
	}
	user, err := r.userSvc.UpdateProfile(ctx, userID, &service.ProfileInput{
		Name:   args.Name,
		Bio:    args.Bio,
		Avatar: args.Avatar,
	})
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(r, dto.ToUserDTO(user)), nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct {
	Title       string
	Content     *string
	Published   *bool
	CoverImage  *string
	CategoryIDs []int32
	Images      *[]imageInput
}) (*postResolver, error) {
	in := &service.CreatePostInput{
		Title:       args.Title,
		CoverImage:  args.CoverImage,
		CategoryIDs: toIDs(args.CategoryIDs),
	}
	if args.Content != nil {
		in.Content = *args.Content
	}
	if args.Published != nil {
		in.Published = *args.Published
	}
	if args.Images != nil {
		in.Images = toImageInputs(*args.Images)
	}
	post, err := r.postSvc.CreatePost(ctx, currentUser(ctx), in)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID          int32
	Title       *string
	Content     *string
	Published   *bool
	CoverImage  *string
	CategoryIDs *[]int32
	Images      *[]imageInput
}) (*postResolver, error) {
	in := &service.UpdatePostInput{
		Title:      args.Title,
		Content:    args.Content,
		Published:  args.Published,
		CoverImage: args.CoverImage,
	}
	if args.CategoryIDs != nil {
		ids := toIDs(*args.CategoryIDs)
		in.CategoryIDs = &ids
	}
	if args.Images != nil {
		images := toImageInputs(*args.Images)
		in.Images = &images
	}
	post, err := r.postSvc.UpdatePost(ctx, currentUser(ctx), toID(args.ID), in)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) DeletePost(ctx context.Context, args idArgs) (*postResolver, error) {
	post, err := r.postSvc.DeletePost(ctx, currentUser(ctx), toID(args.ID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) LikePost(ctx context.Context, args postIDArgs) (*postResolver, error) {
	post, err := r.interactionSvc.LikePost(ctx, currentUser(ctx), toID(args.PostID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) UnlikePost(ctx context.Context, args postIDArgs) (*postResolver, error) {
	post, err := r.interactionSvc.UnlikePost(ctx, currentUser(ctx), toID(args.PostID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

func (r *Resolver) SharePost(ctx context.Context, args postIDArgs) (*postResolver, error) {
	post, err := r.interactionSvc.SharePost(ctx, currentUser(ctx), toID(args.PostID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(r, dto.ToPostDTO(post)), nil
}

type commentIDArgs struct {
	CommentID int32
}

func (r *Resolver) LikeComment(ctx context.Context, args commentIDArgs) (*commentResolver, error) {
	comment, err := r.interactionSvc.LikeComment(ctx, currentUser(ctx), toID(args.CommentID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) UnlikeComment(ctx context.Context, args commentIDArgs) (*commentResolver, error) {
	comment, err := r.interactionSvc.UnlikeComment(ctx, currentUser(ctx), toID(args.CommentID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) FollowUser(ctx context.Context, args userIDArgs) (*userResolver, error) {
	user, err := r.interactionSvc.FollowUser(ctx, currentUser(ctx), toID(args.UserID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(r, dto.ToUserDTO(user)), nil
}

func (r *Resolver) UnfollowUser(ctx context.Context, args userIDArgs) (*userResolver, error) {
	user, err := r.interactionSvc.UnfollowUser(ctx, currentUser(ctx), toID(args.UserID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(r, dto.ToUserDTO(user)), nil
}

func (r *Resolver) CreateComment(ctx context.Context, args struct {
	PostID  int32
	Content string
}) (*commentResolver, error) {
	comment, err := r.commentSvc.Create(ctx, currentUser(ctx), toID(args.PostID), args.Content)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) UpdateComment(ctx context.Context, args struct {
	ID      int32
	Content string
}) (*commentResolver, error) {
	comment, err := r.commentSvc.Update(ctx, currentUser(ctx), toID(args.ID), args.Content)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) DeleteComment(ctx context.Context, args idArgs) (*commentResolver, error) {
	comment, err := r.commentSvc.Delete(ctx, currentUser(ctx), toID(args.ID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newComment(r, dto.ToCommentDTO(comment)), nil
}

func (r *Resolver) CreateCategory(ctx context.Context, args struct {
	Name        string
	Slug        string
	Description *string
}) (*categoryResolver, error) {
	category, err := r.categorySvc.Create(ctx, currentUser(ctx), &service.CreateCategoryInput{
		Name:        args.Name,
		Slug:        args.Slug,
		Description: args.Description,
	})
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newCategory(r, dto.ToCategoryDTO(category)), nil
}

func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	ID          int32
	Name        *string
	Slug        *string
	Description *string
}) (*categoryResolver, error) {
	category, err := r.categorySvc.Update(ctx, currentUser(ctx), toID(args.ID), &service.UpdateCategoryInput{
		Name:        args.Name,
		Slug:        args.Slug,
		Description: args.Description,
	})
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newCategory(r, dto.ToCategoryDTO(category)), nil
}

func (r *Resolver) DeleteCategory(ctx context.Context, args idArgs) (*categoryResolver, error) {
	category, err := r.categorySvc.Delete(ctx, currentUser(ctx), toID(args.ID))
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newCategory(r, dto.ToCategoryDTO(category)), nil
}

func (r *Resolver) UploadImage(ctx context.Context, args struct{ File string }) (*uploadResult, error) {
	img, err := r.mediaSvc.UploadImage(ctx, currentUser(ctx), args.File)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return &uploadResult{
		URL:      img.URL,
		PublicID: img.PublicID,
		Width:    int32(img.Width),
		Height:   int32(img.Height),
	}, nil
}

// DeleteImage 对象不存在或删除失败返回 false
func (r *Resolver) DeleteImage(ctx context.Context, args struct{ PublicID string }) (bool, error) {
	ok, err := r.mediaSvc.DeleteImage(ctx, currentUser(ctx), args.PublicID)
	return ok, wrapErr(ctx, err)
}

func (r *Resolver) SubscribeToNewsletter(ctx context.Context, args struct{ Email string }) (*subscriberResolver, error) {
	subscriber, err := r.newsletterSvc.Subscribe(ctx, args.Email)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	out := dto.ToSubscriberDTO(subscriber)
	return &subscriberResolver{
		ID:           gqlID(out.ID),
		Email:        out.Email,
		SubscribedAt: NewDateTime(out.SubscribedAt),
	}, nil
}

// MarkNotificationsRead id 为空时全部标记已读
func (r *Resolver) MarkNotificationsRead(ctx context.Context, args struct{ ID *string }) (bool, error) {
	var err error
	if args.ID == nil || *args.ID == "" {
		err = r.notificationSvc.MarkAllRead(ctx, currentUser(ctx))
	} else {
		err = r.notificationSvc.MarkRead(ctx, currentUser(ctx), *args.ID)
	}
	if err != nil {
		return false, wrapErr(ctx, err)
	}
	return true, nil
}
