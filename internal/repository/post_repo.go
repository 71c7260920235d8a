package repository

import (
	"Inkwell/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter 帖子列表筛选条件，nil 字段不参与过滤
type PostFilter struct {
	AuthorID   *uint64
	CategoryID *uint64
	Published  *bool
	Keyword    string
	Limit      int
	Offset     int
}

// PostUpdate 帖子更新内容，ReplaceCats / ReplaceImgs 为 false 时对应关联保持不变
type PostUpdate struct {
	Fields      map[string]any
	CategoryIDs []uint64
	Images      []model.Image
	ReplaceCats bool
	ReplaceImgs bool
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, categoryIDs []uint64, images []model.Image) error
	UpdatePost(ctx context.Context, postID uint64, update *PostUpdate) error
	DeletePost(ctx context.Context, postID uint64) error
	GetPostById(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetPostAuthorID(ctx context.Context, id uint64) (uint64, error)
	GetPostLikes(ctx context.Context, id uint64) (int64, bool, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error)
	IncrementShares(ctx context.Context, postID uint64) (bool, error)
	CountPostsByCategory(ctx context.Context, categoryID uint64) (int64, error)
	CountPostsByAuthor(ctx context.Context, authorID uint64) (int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

// withAggregate 预加载作者、分类、按顺序排列的图片以及带作者的评论
func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.name ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.Author")
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, categoryIDs []uint64, images []model.Image) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := insertPostCategories(tx, post.ID, categoryIDs); err != nil {
			return err
		}
		return insertPostImages(tx, post.ID, images)
	})
}

func (s *PostRepoImpl) UpdatePost(ctx context.Context, postID uint64, update *PostUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(update.Fields) > 0 {
			err := tx.Model(&model.Post{ID: postID}).
				Omit(clause.Associations).
				Updates(update.Fields).Error
			if err != nil {
				return err
			}
		}

		if update.ReplaceCats {
			if err := tx.Where("post_id = ?", postID).Delete(&model.PostCategory{}).Error; err != nil {
				return err
			}
			if err := insertPostCategories(tx, postID, update.CategoryIDs); err != nil {
				return err
			}
		}

		if update.ReplaceImgs {
			if err := tx.Where("post_id = ?", postID).Delete(&model.Image{}).Error; err != nil {
				return err
			}
			if err := insertPostImages(tx, postID, update.Images); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePost 删除帖子及其图片、分类关联、评论和互动记录
func (s *PostRepoImpl) DeletePost(ctx context.Context, postID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint64
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", postID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			err := tx.Where("target_type = ? AND target_id IN ?", model.TargetComment, commentIDs).
				Delete(&model.Interaction{}).Error
			if err != nil {
				return err
			}
		}

		steps := []struct {
			query string
			model any
		}{
			{"target_type = 'post' AND target_id = ?", &model.Interaction{}},
			{"post_id = ?", &model.Comment{}},
			{"post_id = ?", &model.Image{}},
			{"post_id = ?", &model.PostCategory{}},
			{"id = ?", &model.Post{}},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, postID).Delete(step.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id uint64) (*model.Post, error) {
	post := &model.Post{}
	err := withAggregate(s.db.WithContext(ctx)).First(post, id).Error
	return ignoreNotFound(post, err)
}

// GetPostByIds 批量查询帖子，返回顺序与 ids 一致
func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	var posts []*model.Post
	if err := withAggregate(s.db.WithContext(ctx)).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*model.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// GetPostAuthorID 返回帖子作者，帖子不存在时返回 0
func (s *PostRepoImpl) GetPostAuthorID(ctx context.Context, id uint64) (uint64, error) {
	var authorID uint64
	err := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("author_id").
		Where("id = ?", id).
		Limit(1).
		Scan(&authorID).Error
	return authorID, err
}

// GetPostLikes 返回帖子点赞计数以及帖子是否存在
func (s *PostRepoImpl) GetPostLikes(ctx context.Context, id uint64) (int64, bool, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Select("id", "likes").Take(&post, id).Error
	p, err := ignoreNotFound(&post, err)
	if err != nil || p == nil {
		return 0, false, err
	}
	return p.Likes, true, nil
}

func (s *PostRepoImpl) ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	query := withAggregate(s.db.WithContext(ctx)).Model(&model.Post{})
	if filter.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.CategoryID != nil {
		query = query.Where("posts.id IN (?)",
			s.db.Model(&model.PostCategory{}).Select("post_id").Where("category_id = ?", *filter.CategoryID))
	}
	if filter.Published != nil {
		query = query.Where("posts.published = ?", *filter.Published)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ?)", like, like)
	}

	var posts []*model.Post
	err := page(query.Order("posts.created_at DESC, posts.id DESC"), filter.Limit, filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementShares 分享数加一，帖子不存在时返回 false
func (s *PostRepoImpl) IncrementShares(ctx context.Context, postID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("shares", gorm.Expr("shares + ?", 1))
	return result.RowsAffected > 0, result.Error
}

func (s *PostRepoImpl) CountPostsByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.PostCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPostsByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func insertPostCategories(tx *gorm.DB, postID uint64, categoryIDs []uint64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]model.PostCategory, 0, len(categoryIDs))
	seen := make(map[uint64]struct{}, len(categoryIDs))
	for _, cid := range categoryIDs {
		if _, ok := seen[cid]; ok {
			continue
		}
		seen[cid] = struct{}{}
		rows = append(rows, model.PostCategory{PostID: postID, CategoryID: cid})
	}
	return tx.Create(&rows).Error
}

func insertPostImages(tx *gorm.DB, postID uint64, images []model.Image) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = 0
		images[i].PostID = postID
	}
	return tx.Create(&images).Error
}
