package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/database"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingProducer struct {
	mu     sync.Mutex
	events []*kafka.InteractionEvent
}

func (p *recordingProducer) Publish(_ context.Context, event *kafka.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) Events() []*kafka.InteractionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*kafka.InteractionEvent(nil), p.events...)
}

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	producer *recordingProducer

	userRepo        repository.UserRepo
	followRepo      repository.UserFollowRepo
	postRepo        repository.PostRepo
	categoryRepo    repository.CategoryRepo
	commentRepo     repository.CommentRepo
	interactionRepo repository.InteractionRepo
	newsletterRepo  repository.NewsletterRepo

	interactions InteractionService
	users        UserService
	posts        PostService
	categories   CategoryService
	comments     CommentService
	newsletter   NewsletterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewMemoryDB(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := setupTestRedis(t)

	env := &testEnv{
		db:              db,
		mr:              mr,
		producer:        &recordingProducer{},
		userRepo:        repository.NewUserRepo(db),
		followRepo:      repository.NewUserFollowRepo(db),
		postRepo:        repository.NewPostRepo(db),
		categoryRepo:    repository.NewCategoryRepo(db),
		commentRepo:     repository.NewCommentRepo(db),
		interactionRepo: repository.NewInteractionRepo(db),
		newsletterRepo:  repository.NewNewsletterRepo(db),
	}
	env.interactions = NewInteractionService(env.interactionRepo, env.postRepo, env.commentRepo, env.userRepo, env.followRepo, env.producer)
	env.users = NewUserService(env.userRepo)
	env.posts = NewPostService(env.postRepo, env.categoryRepo, nil, nil)
	env.categories = NewCategoryService(env.categoryRepo, env.postRepo)
	env.comments = NewCommentService(env.commentRepo, env.postRepo, env.interactionRepo)
	env.newsletter = NewNewsletterService(env.newsletterRepo)
	return env
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

func (e *testEnv) seedUser(t *testing.T, id uint64, name string) *model.User {
	t.Helper()
	user := &model.User{ID: id, Email: name + "@inkwell.dev", Password: "x", Name: name}
	require.NoError(t, e.userRepo.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: name}
	require.NoError(t, e.categoryRepo.CreateCategory(context.Background(), category))
	return category
}

func (e *testEnv) seedPost(t *testing.T, id, authorID uint64, categoryIDs ...uint64) *model.Post {
	t.Helper()
	post := &model.Post{ID: id, AuthorID: authorID, Title: "post", Content: "body", Published: true}
	require.NoError(t, e.postRepo.CreatePost(context.Background(), post, categoryIDs, nil))
	return post
}

func (e *testEnv) seedComment(t *testing.T, id, postID, authorID uint64) *model.Comment {
	t.Helper()
	comment := &model.Comment{ID: id, PostID: postID, AuthorID: authorID, Content: "nice"}
	require.NoError(t, e.commentRepo.CreateComment(context.Background(), comment))
	return comment
}

func (e *testEnv) postLikes(t *testing.T, postID uint64) int64 {
	t.Helper()
	likes, _, err := e.postRepo.GetPostLikes(context.Background(), postID)
	require.NoError(t, err)
	return likes
}
