package graph

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/service"
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/graph-gophers/graphql-go"
)

func gqlID(id uint64) graphql.ID {
	return graphql.ID(strconv.FormatUint(id, 10))
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// userResolver

type userResolver struct {
	r *Resolver
	u *dto.UserDTO

	countsOnce sync.Once
	counts     *service.FollowCounts
	countsErr  error
}

func newUser(r *Resolver, u *dto.UserDTO) *userResolver {
	if u == nil {
		return nil
	}
	return &userResolver{r: r, u: u}
}

func newUsers(r *Resolver, users []*model.User) []*userResolver {
	out := make([]*userResolver, 0, len(users))
	for _, u := range dto.ToUserDTOs(users) {
		out = append(out, newUser(r, u))
	}
	return out
}

func (u *userResolver) ID() graphql.ID      { return gqlID(u.u.ID) }
func (u *userResolver) Email() string       { return u.u.Email }
func (u *userResolver) Name() *string       { return optString(u.u.Name) }
func (u *userResolver) Bio() *string        { return u.u.Bio }
func (u *userResolver) Avatar() *string     { return u.u.Avatar }
func (u *userResolver) CreatedAt() DateTime { return NewDateTime(u.u.CreatedAt) }

func (u *userResolver) followCounts(ctx context.Context) (*service.FollowCounts, error) {
	u.countsOnce.Do(func() {
		u.counts, u.countsErr = u.r.interactionSvc.GetFollowCounts(ctx, u.u.ID)
	})
	return u.counts, wrapErr(ctx, u.countsErr)
}

func (u *userResolver) Followers(ctx context.Context) (int32, error) {
	counts, err := u.followCounts(ctx)
	if err != nil {
		return 0, err
	}
	return int32(counts.Followers), nil
}

func (u *userResolver) Following(ctx context.Context) (int32, error) {
	counts, err := u.followCounts(ctx)
	if err != nil {
		return 0, err
	}
	return int32(counts.Following), nil
}

func (u *userResolver) FollowersCount(ctx context.Context) (int32, error) {
	return u.Followers(ctx)
}

func (u *userResolver) FollowingCount(ctx context.Context) (int32, error) {
	return u.Following(ctx)
}

func (u *userResolver) PostsCount(ctx context.Context) (int32, error) {
	count, err := u.r.postSvc.CountByUser(ctx, u.u.ID)
	if err != nil {
		return 0, wrapErr(ctx, err)
	}
	return int32(count), nil
}

// IsFollowing 当前登录用户是否关注了该用户
func (u *userResolver) IsFollowing(ctx context.Context) (bool, error) {
	following, err := u.r.interactionSvc.IsFollowing(ctx, currentUser(ctx), u.u.ID)
	return following, wrapErr(ctx, err)
}

// postResolver

type postResolver struct {
	r *Resolver
	p *dto.PostDTO
}

func newPost(r *Resolver, p *dto.PostDTO) *postResolver {
	if p == nil {
		return nil
	}
	return &postResolver{r: r, p: p}
}

func newPosts(r *Resolver, posts []*dto.PostDTO) []*postResolver {
	out := make([]*postResolver, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPost(r, p))
	}
	return out
}

func (p *postResolver) ID() graphql.ID      { return gqlID(p.p.ID) }
func (p *postResolver) Title() string       { return p.p.Title }
func (p *postResolver) Content() *string    { return optString(p.p.Content) }
func (p *postResolver) CoverImage() *string { return p.p.CoverImage }
func (p *postResolver) Published() bool     { return p.p.Published }
func (p *postResolver) Likes() int32        { return int32(p.p.Likes) }
func (p *postResolver) Shares() int32       { return int32(p.p.Shares) }
func (p *postResolver) AuthorID() int32     { return int32(p.p.AuthorID) }
func (p *postResolver) CreatedAt() DateTime { return NewDateTime(p.p.CreatedAt) }
func (p *postResolver) UpdatedAt() DateTime { return NewDateTime(p.p.UpdatedAt) }

func (p *postResolver) Author(ctx context.Context) (*userResolver, error) {
	if p.p.Author != nil {
		return newUser(p.r, p.p.Author), nil
	}
	user, err := p.r.userSvc.GetUser(ctx, p.p.AuthorID)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(p.r, dto.ToUserDTO(user)), nil
}

// Category 第一个分类，兼容只展示单个分类的客户端
func (p *postResolver) Category() *categoryResolver {
	if len(p.p.Categories) == 0 {
		return nil
	}
	return newCategory(p.r, p.p.Categories[0])
}

func (p *postResolver) Categories() []*categoryResolver {
	return newCategories(p.r, p.p.Categories)
}

func (p *postResolver) Images() []*imageResolver {
	out := make([]*imageResolver, 0, len(p.p.Images))
	for _, img := range p.p.Images {
		out = append(out, &imageResolver{img: img})
	}
	return out
}

func (p *postResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	ids := make([]uint64, 0, len(p.p.Comments))
	for _, c := range p.p.Comments {
		ids = append(ids, c.ID)
	}
	likedBy, err := p.r.commentSvc.LikedBy(ctx, ids)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}

	out := make([]*commentResolver, 0, len(p.p.Comments))
	for _, c := range p.p.Comments {
		if c.LikedBy == nil {
			c.LikedBy = likedBy[c.ID]
		}
		out = append(out, newComment(p.r, c))
	}
	return out, nil
}

// IsLiked 当前登录用户是否点赞，未登录为 false
func (p *postResolver) IsLiked(ctx context.Context) (bool, error) {
	liked, err := p.r.interactionSvc.IsPostLiked(ctx, currentUser(ctx), p.p.ID)
	return liked, wrapErr(ctx, err)
}

// categoryResolver

type categoryResolver struct {
	r *Resolver
	c *dto.CategoryDTO
}

func newCategory(r *Resolver, c *dto.CategoryDTO) *categoryResolver {
	if c == nil {
		return nil
	}
	return &categoryResolver{r: r, c: c}
}

func newCategories(r *Resolver, categories []*dto.CategoryDTO) []*categoryResolver {
	out := make([]*categoryResolver, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategory(r, c))
	}
	return out
}

func (c *categoryResolver) ID() graphql.ID       { return gqlID(c.c.ID) }
func (c *categoryResolver) Name() string         { return c.c.Name }
func (c *categoryResolver) Slug() string         { return c.c.Slug }
func (c *categoryResolver) Description() *string { return c.c.Description }
func (c *categoryResolver) CreatedAt() DateTime  { return NewDateTime(c.c.CreatedAt) }

func (c *categoryResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := c.r.postSvc.PostsByCategory(ctx, c.c.ID, consts.MaxPageSize, 0)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPosts(c.r, dto.ToPostDTOs(posts)), nil
}

// imageResolver

type imageResolver struct {
	img *dto.ImageDTO
}

func (i *imageResolver) ID() graphql.ID   { return gqlID(i.img.ID) }
func (i *imageResolver) URL() string      { return i.img.URL }
func (i *imageResolver) Alt() *string     { return i.img.Alt }
func (i *imageResolver) Caption() *string { return i.img.Caption }
func (i *imageResolver) Order() int32     { return int32(i.img.Order) }
func (i *imageResolver) PostID() int32    { return int32(i.img.PostID) }

// commentResolver

type commentResolver struct {
	r *Resolver
	c *dto.CommentDTO
}

func newComment(r *Resolver, c *dto.CommentDTO) *commentResolver {
	if c == nil {
		return nil
	}
	return &commentResolver{r: r, c: c}
}

func newComments(r *Resolver, comments []*dto.CommentDTO) []*commentResolver {
	out := make([]*commentResolver, 0, len(comments))
	for _, c := range comments {
		out = append(out, newComment(r, c))
	}
	return out
}

func (c *commentResolver) ID() graphql.ID      { return gqlID(c.c.ID) }
func (c *commentResolver) Content() string     { return c.c.Content }
func (c *commentResolver) Likes() int32        { return int32(c.c.Likes) }
func (c *commentResolver) AuthorID() int32     { return int32(c.c.AuthorID) }
func (c *commentResolver) PostID() int32       { return int32(c.c.PostID) }
func (c *commentResolver) CreatedAt() DateTime { return NewDateTime(c.c.CreatedAt) }
func (c *commentResolver) UpdatedAt() DateTime { return NewDateTime(c.c.UpdatedAt) }

func (c *commentResolver) LikedBy() []int32 {
	out := make([]int32, 0, len(c.c.LikedBy))
	for _, id := range c.c.LikedBy {
		out = append(out, int32(id))
	}
	return out
}

func (c *commentResolver) Author(ctx context.Context) (*userResolver, error) {
	if c.c.Author != nil {
		return newUser(c.r, c.c.Author), nil
	}
	user, err := c.r.userSvc.GetUser(ctx, c.c.AuthorID)
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(c.r, dto.ToUserDTO(user)), nil
}

func (c *commentResolver) Post(ctx context.Context) (*postResolver, error) {
	if c.c.Post != nil {
		return newPost(c.r, c.c.Post), nil
	}
	post, err := c.r.postSvc.GetPost(ctx, c.c.PostID)
	if errors.Is(err, service.ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newPost(c.r, dto.ToPostDTO(post)), nil
}

// notificationResolver

type notificationResolver struct {
	r *Resolver
	n *dto.NotificationDTO
}

func (n *notificationResolver) ID() graphql.ID      { return graphql.ID(n.n.ID) }
func (n *notificationResolver) Type() string        { return n.n.Type }
func (n *notificationResolver) TargetID() int32     { return int32(n.n.TargetID) }
func (n *notificationResolver) Snippet() *string    { return optString(n.n.Snippet) }
func (n *notificationResolver) IsRead() bool        { return n.n.IsRead }
func (n *notificationResolver) CreatedAt() DateTime { return NewDateTime(n.n.CreatedAt) }

func (n *notificationResolver) PostID() *int32 {
	if n.n.PostID == 0 {
		return nil
	}
	id := int32(n.n.PostID)
	return &id
}

// Actor 发起者已注销时返回 null
func (n *notificationResolver) Actor(ctx context.Context) (*userResolver, error) {
	user, err := n.r.userSvc.GetUser(ctx, n.n.ActorID)
	if errors.Is(err, service.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(ctx, err)
	}
	return newUser(n.r, dto.ToUserDTO(user)), nil
}

// 简单对象直接按字段解析

type authPayload struct {
	Token string
	User  *userResolver
}

type uploadResult struct {
	URL      string
	PublicID string
	Width    int32
	Height   int32
}

type subscriberResolver struct {
	ID           graphql.ID
	Email        string
	SubscribedAt DateTime
}
