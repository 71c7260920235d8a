package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	"strings"
)

type CreateCategoryInput struct {
	Name        string  `validate:"required,max=100"`
	Slug        string  `validate:"required,max=120"`
	Description *string `validate:"omitempty,max=2000"`
}

type UpdateCategoryInput struct {
	Name        *string `validate:"omitempty,min=1,max=100"`
	Slug        *string `validate:"omitempty,min=1,max=120"`
	Description *string `validate:"omitempty,max=2000"`
}

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByIds(ctx context.Context, ids []uint64) ([]*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Create(ctx context.Context, userID uint64, in *CreateCategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID, id uint64, in *UpdateCategoryInput) (*model.Category, error)
	Delete(ctx context.Context, userID, id uint64) (*model.Category, error)
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
	postRepo     repository.PostRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo, postRepo repository.PostRepo) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
	}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *categoryServiceImpl) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	category, err := s.categoryRepo.GetCategoryById(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryServiceImpl) GetByIds(ctx context.Context, ids []uint64) ([]*model.Category, error) {
	if len(ids) == 0 {
		return []*model.Category{}, nil
	}
	return s.categoryRepo.GetCategoryByIds(ctx, ids)
}

func (s *categoryServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, paramError("Invalid category slug provided")
	}
	category, err := s.categoryRepo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, withMessage(ErrCategoryNotFound, fmt.Sprintf("Category with slug %q not found", slug))
	}
	return category, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, userID uint64, in *CreateCategoryInput) (*model.Category, error) {
	if userID == 0 {
		return nil, unauthenticated("create a category")
	}
	in.Name, in.Slug = strings.TrimSpace(in.Name), strings.TrimSpace(in.Slug)
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}

	exists, err := s.categoryRepo.ExistsByNameOrSlug(ctx, in.Name, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExist
	}

	category := &model.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err = s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, userID, id uint64, in *UpdateCategoryInput) (*model.Category, error) {
	if userID == 0 {
		return nil, unauthenticated("update a category")
	}
	in.Name, in.Slug = util.TrimPtr(in.Name), util.TrimPtr(in.Slug)
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if in.Name != nil || in.Slug != nil {
		exists, err := s.categoryRepo.ExistsByNameOrSlug(ctx, util.Deref(in.Name), util.Deref(in.Slug), id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCategoryExist
		}
	}

	updates := make(map[string]any)
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Slug != nil {
		updates["slug"] = *in.Slug
	}
	if in.Description != nil {
		updates["description"] = in.Description
	}
	if err := s.categoryRepo.UpdateCategory(ctx, id, updates); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete 仍有帖子引用时拒绝删除
func (s *categoryServiceImpl) Delete(ctx context.Context, userID, id uint64) (*model.Category, error) {
	if userID == 0 {
		return nil, unauthenticated("delete a category")
	}
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountPostsByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, withMessage(ErrCategoryInUse, fmt.Sprintf(
			"Cannot delete category. It is associated with %d post(s). Please remove or reassign these posts first.", count))
	}

	if err = s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return nil, err
	}
	return category, nil
}
