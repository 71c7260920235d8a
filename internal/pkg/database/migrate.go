package database

import (
	"Inkwell/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 建表并登记 post_categories 关联表
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Post{}, "Categories", &model.PostCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.UserFollow{},
		&model.Category{},
		&model.Post{},
		&model.PostCategory{},
		&model.Image{},
		&model.Comment{},
		&model.Interaction{},
		&model.NewsletterSubscriber{},
	)
}
