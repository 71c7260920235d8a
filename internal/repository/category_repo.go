package repository

import (
	"Inkwell/internal/model"
	"context"

	"gorm.io/gorm"
)

type CategoryRepo interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryById(ctx context.Context, id uint64) (*model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	GetCategoryByIds(ctx context.Context, ids []uint64) ([]*model.Category, error)
	ExistsByNameOrSlug(ctx context.Context, name, slug string, excludeID uint64) (bool, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, id uint64, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uint64) error
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{db: db}
}

func (s *CategoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryRepoImpl) GetCategoryById(ctx context.Context, id uint64) (*model.Category, error) {
	category := &model.Category{}
	err := s.db.WithContext(ctx).Take(category, id).Error
	return ignoreNotFound(category, err)
}

func (s *CategoryRepoImpl) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	category := &model.Category{}
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(category).Error
	return ignoreNotFound(category, err)
}

func (s *CategoryRepoImpl) GetCategoryByIds(ctx context.Context, ids []uint64) ([]*model.Category, error) {
	categories := make([]*model.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsByNameOrSlug 检查名称或 slug 是否已被其他分类占用
func (s *CategoryRepoImpl) ExistsByNameOrSlug(ctx context.Context, name, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("(name = ? OR slug = ?)", name, slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (s *CategoryRepoImpl) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *CategoryRepoImpl) UpdateCategory(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.Category{ID: id}).Updates(updates).Error
}

func (s *CategoryRepoImpl) DeleteCategory(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}
