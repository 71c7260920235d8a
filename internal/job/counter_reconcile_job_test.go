package job

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/database"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReconcile(t *testing.T) (*gorm.DB, *miniredis.Miniredis, *CounterReconcileJob) {
	t.Helper()
	db, err := database.NewMemoryDB(t.Name())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })

	interactionRepo := repository.NewInteractionRepo(db)
	svc := service.NewInteractionService(
		interactionRepo,
		repository.NewPostRepo(db),
		repository.NewCommentRepo(db),
		repository.NewUserRepo(db),
		repository.NewUserFollowRepo(db),
		kafka.NopProducer{},
	)

	ctx := context.Background()
	require.NoError(t, db.Create(&model.User{ID: 1, Email: "a@inkwell.dev", Password: "x", Name: "a"}).Error)
	require.NoError(t, db.Create(&model.User{ID: 2, Email: "b@inkwell.dev", Password: "x", Name: "b"}).Error)
	require.NoError(t, db.Create(&model.Post{ID: 5, AuthorID: 1, Title: "t", Content: "c"}).Error)
	require.NoError(t, db.Create(&model.Comment{ID: 42, PostID: 5, AuthorID: 1, Content: "c"}).Error)
	require.NoError(t, interactionRepo.Like(ctx, 1, model.TargetPost, 5))
	require.NoError(t, interactionRepo.Like(ctx, 2, model.TargetPost, 5))
	require.NoError(t, interactionRepo.Like(ctx, 2, model.TargetComment, 42))

	// 模拟计数漂移
	require.NoError(t, db.Exec("UPDATE posts SET likes = 99 WHERE id = 5").Error)
	require.NoError(t, db.Exec("UPDATE comments SET likes = 0 WHERE id = 42").Error)

	return db, mr, NewCounterReconcileJob(svc)
}

func likesOf(t *testing.T, db *gorm.DB, table string, id uint64) int64 {
	t.Helper()
	var likes int64
	require.NoError(t, db.Table(table).Select("likes").Where("id = ?", id).Scan(&likes).Error)
	return likes
}

func TestCounterReconcileJob_Run(t *testing.T) {
	db, mr, job := setupReconcile(t)
	_, err := mr.SAdd(consts.PostDirtyKey, "5")
	require.NoError(t, err)
	_, err = mr.SAdd(consts.CommentLikeDirtyKey, "42")
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.PostLikeKey+"5", "99"))

	job.Run()

	assert.Equal(t, int64(2), likesOf(t, db, "posts", 5))
	assert.Equal(t, int64(1), likesOf(t, db, "comments", 42))
	assert.False(t, mr.Exists(consts.PostDirtyKey))
	assert.False(t, mr.Exists(consts.PostDirtyKey+":processing"))
	assert.False(t, mr.Exists(consts.CommentLikeDirtyKey+":processing"))
	assert.False(t, mr.Exists(consts.PostLikeKey+"5"))
	assert.False(t, mr.Exists(consts.CounterReconcileLock))
}

func TestCounterReconcileJob_ResumesProcessingSet(t *testing.T) {
	db, mr, job := setupReconcile(t)
	_, err := mr.SAdd(consts.PostDirtyKey+":processing", "5")
	require.NoError(t, err)

	job.Run()

	assert.Equal(t, int64(2), likesOf(t, db, "posts", 5))
	assert.False(t, mr.Exists(consts.PostDirtyKey+":processing"))
}

func TestCounterReconcileJob_SkipsWhenLocked(t *testing.T) {
	db, mr, job := setupReconcile(t)
	_, err := mr.SAdd(consts.PostDirtyKey, "5")
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.CounterReconcileLock, "someone-else"))

	job.Run()

	assert.Equal(t, int64(99), likesOf(t, db, "posts", 5))
	assert.True(t, mr.Exists(consts.PostDirtyKey))
}
