package database

import (
	"Inkwell/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_FreshSQLite(t *testing.T) {
	db, err := NewMemoryDB(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	indexes := []struct {
		model any
		name  string
	}{
		{&model.Post{}, "idx_posts_author_id"},
		{&model.Comment{}, "idx_comments_author_id"},
		{&model.Comment{}, "idx_comments_post_id"},
		{&model.Interaction{}, "idx_interactions_user_target"},
		{&model.UserFollow{}, "idx_user_follows_following_id"},
	}
	for _, idx := range indexes {
		assert.True(t, db.Migrator().HasIndex(idx.model, idx.name), idx.name)
	}

	// 重复迁移不应报错
	require.NoError(t, AutoMigrate(db))
}
