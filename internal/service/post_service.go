package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
)

const defaultRecentLimit = 5

// ImageInput 帖子配图参数，Order 为空时按数组下标排序
type ImageInput struct {
	URL     string  `validate:"required,max=512"`
	Alt     *string `validate:"omitempty,max=255"`
	Caption *string `validate:"omitempty,max=512"`
	Order   *int
}

type CreatePostInput struct {
	Title       string `validate:"required,max=255"`
	Content     string `validate:"max=100000"`
	Published   bool
	CoverImage  *string      `validate:"omitempty,max=512"`
	CategoryIDs []uint64     `validate:"required,min=1"`
	Images      []ImageInput `validate:"dive"`
}

// UpdatePostInput nil 字段保持不变，CategoryIDs / Images 非 nil 时整体替换
type UpdatePostInput struct {
	Title       *string `validate:"omitempty,max=255"`
	Content     *string `validate:"omitempty,max=100000"`
	Published   *bool
	CoverImage  *string `validate:"omitempty,max=512"`
	CategoryIDs *[]uint64
	Images      *[]ImageInput
}

type ListPostsInput struct {
	CategoryID *uint64
	Published  *bool
	Limit      int
	Offset     int
}

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, in *CreatePostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, userID, postID uint64, in *UpdatePostInput) (*model.Post, error)
	DeletePost(ctx context.Context, userID, postID uint64) (*model.Post, error)
	GetPost(ctx context.Context, postID uint64) (*model.Post, error)
	ListPosts(ctx context.Context, in *ListPostsInput) ([]*model.Post, error)
	RecentPosts(ctx context.Context, limit int) ([]*model.Post, error)
	PostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	PostsByCategory(ctx context.Context, categoryID uint64, limit, offset int) ([]*model.Post, error)
	SearchPosts(ctx context.Context, query string, limit, offset int) ([]*model.Post, error)
	CountByUser(ctx context.Context, userID uint64) (int64, error)
}

type postServiceImpl struct {
	postDBRepo   repository.PostRepo
	categoryRepo repository.CategoryRepo
	postESRepo   es.PostRepo
	store        minio.ObjectStore
}

// NewPostService postESRepo 与 store 可以为 nil，此时不同步索引、不清理对象
func NewPostService(
	postDBRepo repository.PostRepo,
	categoryRepo repository.CategoryRepo,
	postESRepo es.PostRepo,
	store minio.ObjectStore,
) PostService {
	return &postServiceImpl{
		postDBRepo:   postDBRepo,
		categoryRepo: categoryRepo,
		postESRepo:   postESRepo,
		store:        store,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, in *CreatePostInput) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("create a post")
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}
	if err := s.checkCategories(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID:   userID,
		Title:      in.Title,
		Content:    in.Content,
		CoverImage: util.TrimPtr(in.CoverImage),
		Published:  in.Published,
	}
	if err := s.postDBRepo.CreatePost(ctx, post, in.CategoryIDs, toImages(in.Images)); err != nil {
		return nil, err
	}

	created, err := s.mustGetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, created)
	s.claimObjects(ctx, created)
	return created, nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, in *UpdatePostInput) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("update a post")
	}
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}
	if err := s.checkOwner(ctx, userID, postID, "You can only update your own posts"); err != nil {
		return nil, err
	}

	update := &repository.PostUpdate{Fields: make(map[string]any)}
	if title := util.TrimPtr(in.Title); title != nil {
		update.Fields["title"] = *title
	}
	if in.Content != nil {
		update.Fields["content"] = *in.Content
	}
	if in.Published != nil {
		update.Fields["published"] = *in.Published
	}
	if in.CoverImage != nil {
		update.Fields["cover_image"] = util.TrimPtr(in.CoverImage)
	}
	if in.CategoryIDs != nil {
		if len(*in.CategoryIDs) == 0 {
			return nil, paramError("A post needs at least one category")
		}
		if err := s.checkCategories(ctx, *in.CategoryIDs); err != nil {
			return nil, err
		}
		update.ReplaceCats = true
		update.CategoryIDs = *in.CategoryIDs
	}
	if in.Images != nil {
		if err := util.ValidateDTO(struct {
			Images []ImageInput `validate:"dive"`
		}{*in.Images}); err != nil {
			return nil, paramError(err.Error())
		}
		update.ReplaceImgs = true
		update.Images = toImages(*in.Images)
	}

	if err := s.postDBRepo.UpdatePost(ctx, postID, update); err != nil {
		return nil, err
	}

	updated, err := s.mustGetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, updated)
	s.claimObjects(ctx, updated)
	return updated, nil
}

// DeletePost 删除帖子并返回删除前的快照
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("delete a post")
	}
	post, err := s.mustGetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, withMessage(ErrForbidden, "You can only delete your own posts")
	}

	if err = s.postDBRepo.DeletePost(ctx, postID); err != nil {
		return nil, err
	}
	s.dropCounters(ctx, postID)

	bgCtx := logger.WithTraceID(context.Background(), logger.TraceID(ctx))
	if s.postESRepo != nil {
		go func() {
			if err := s.postESRepo.DeletePost(bgCtx, postID); err != nil {
				log.ErrorContext(bgCtx, "delete post from index failed", "postID", postID, "err", err)
			}
		}()
	}
	if s.store != nil {
		go s.removeObjects(bgCtx, post)
	}
	return post, nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	return s.mustGetPost(ctx, postID)
}

func (s *postServiceImpl) ListPosts(ctx context.Context, in *ListPostsInput) ([]*model.Post, error) {
	return s.postDBRepo.ListPosts(ctx, repository.PostFilter{
		CategoryID: in.CategoryID,
		Published:  in.Published,
		Limit:      normalizeLimit(in.Limit),
		Offset:     max(in.Offset, 0),
	})
}

func (s *postServiceImpl) RecentPosts(ctx context.Context, limit int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.postDBRepo.ListPosts(ctx, repository.PostFilter{
		Published: util.Ptr(true),
		Limit:     normalizeLimit(limit),
	})
}

func (s *postServiceImpl) PostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	return s.postDBRepo.ListPosts(ctx, repository.PostFilter{
		AuthorID: &userID,
		Limit:    normalizeLimit(limit),
		Offset:   max(offset, 0),
	})
}

func (s *postServiceImpl) PostsByCategory(ctx context.Context, categoryID uint64, limit, offset int) ([]*model.Post, error) {
	return s.postDBRepo.ListPosts(ctx, repository.PostFilter{
		CategoryID: &categoryID,
		Limit:      normalizeLimit(limit),
		Offset:     max(offset, 0),
	})
}

// SearchPosts 优先使用 ES 检索，ES 不可用时退化为数据库模糊匹配
func (s *postServiceImpl) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.Post{}, nil
	}
	limit, offset = normalizeLimit(limit), max(offset, 0)

	if s.postESRepo != nil {
		ids, err := s.postESRepo.SearchPostIDs(ctx, query, offset, limit)
		if err == nil {
			return s.postDBRepo.GetPostByIds(ctx, ids)
		}
		log.WarnContext(ctx, "search index unavailable, falling back to database", "err", err)
	}

	return s.postDBRepo.ListPosts(ctx, repository.PostFilter{
		Published: util.Ptr(true),
		Keyword:   query,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *postServiceImpl) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	return s.postDBRepo.CountPostsByAuthor(ctx, userID)
}

func (s *postServiceImpl) mustGetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postDBRepo.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postServiceImpl) checkOwner(ctx context.Context, userID, postID uint64, msg string) error {
	authorID, err := s.postDBRepo.GetPostAuthorID(ctx, postID)
	if err != nil {
		return err
	}
	if authorID == 0 {
		return ErrPostNotFound
	}
	if authorID != userID {
		return withMessage(ErrForbidden, msg)
	}
	return nil
}

// checkCategories 所有分类 ID 都必须存在
func (s *postServiceImpl) checkCategories(ctx context.Context, ids []uint64) error {
	want := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	found, err := s.categoryRepo.GetCategoryByIds(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(want) {
		return ErrCategoryNotFound
	}
	return nil
}

// syncIndex 异步把帖子写入搜索索引
func (s *postServiceImpl) syncIndex(ctx context.Context, post *model.Post) {
	if s.postESRepo == nil {
		return
	}
	doc := toPostES(post)
	version := post.UpdatedAt.UnixNano()
	bgCtx := logger.WithTraceID(context.Background(), logger.TraceID(ctx))
	go func() {
		if err := s.postESRepo.IndexPost(bgCtx, doc, version); err != nil {
			log.ErrorContext(bgCtx, "index post failed", "postID", doc.ID, "err", err)
		}
	}()
}

// objectNames 帖子封面与配图中属于本站存储的对象
func (s *postServiceImpl) objectNames(post *model.Post) []string {
	urls := make([]string, 0, len(post.Images)+1)
	if post.CoverImage != nil {
		urls = append(urls, *post.CoverImage)
	}
	for _, img := range post.Images {
		urls = append(urls, img.URL)
	}
	names := make([]string, 0, len(urls))
	for _, url := range urls {
		if name, ok := s.store.ObjectNameFromURL(url); ok {
			names = append(names, name)
		}
	}
	return names
}

// claimObjects 帖子引用的图片不再是临时对象
func (s *postServiceImpl) claimObjects(ctx context.Context, post *model.Post) {
	if s.store == nil {
		return
	}
	if err := redis.HDel(ctx, consts.MediaTempKey, s.objectNames(post)...); err != nil {
		log.WarnContext(ctx, "claim temp media failed", "postID", post.ID, "err", err)
	}
}

func (s *postServiceImpl) removeObjects(ctx context.Context, post *model.Post) {
	for _, name := range s.objectNames(post) {
		if err := s.store.DeleteFile(ctx, name); err != nil {
			log.WarnContext(ctx, "remove post image failed", "object", name, "err", err)
		}
	}
}

func toImages(inputs []ImageInput) []model.Image {
	images := make([]model.Image, 0, len(inputs))
	for i, in := range inputs {
		order := i
		if in.Order != nil {
			order = *in.Order
		}
		images = append(images, model.Image{
			URL:       strings.TrimSpace(in.URL),
			Alt:       in.Alt,
			Caption:   in.Caption,
			SortOrder: order,
		})
	}
	return images
}

func toPostES(post *model.Post) *es.PostES {
	categories := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		categories = append(categories, c.Name)
	}
	return &es.PostES{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		AuthorName: post.Author.Name,
		Title:      post.Title,
		Content:    post.Content,
		Categories: categories,
		Published:  post.Published,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}

// dropCounters 帖子删除后清掉计数缓存与对账登记
func (s *postServiceImpl) dropCounters(ctx context.Context, postID uint64) {
	id := strconv.FormatUint(postID, 10)
	if err := redis.DeleteKey(ctx, consts.PostLikeKey+id); err != nil {
		log.WarnContext(ctx, "drop post like cache failed", "postID", postID, "err", err)
	}
	if err := redis.SRem(ctx, consts.PostDirtyKey, id); err != nil {
		log.WarnContext(ctx, "drop post dirty mark failed", "postID", postID, "err", err)
	}
}
