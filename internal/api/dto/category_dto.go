package dto

import (
	"Inkwell/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

type CategoryDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToCategoryDTO(category *model.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	out := &CategoryDTO{}
	_ = copier.Copy(out, category)
	return out
}

func ToCategoryDTOs(categories []*model.Category) []*CategoryDTO {
	out := make([]*CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryDTO(c))
	}
	return out
}
