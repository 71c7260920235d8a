package service

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePost_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	post, err := env.interactions.LikePost(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Likes)
	assert.Equal(t, "author", post.Author.Name)

	liked, err := env.interactions.IsPostLiked(ctx, 2, 5)
	require.NoError(t, err)
	assert.True(t, liked)

	post, err = env.interactions.UnlikePost(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), post.Likes)

	liked, err = env.interactions.IsPostLiked(ctx, 2, 5)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikePost_TwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedPost(t, 5, 1)

	_, err := env.interactions.LikePost(ctx, 1, 5)
	require.NoError(t, err)

	_, err = env.interactions.LikePost(ctx, 1, 5)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.EqualError(t, err, "You already liked this post")
	assert.Equal(t, int64(1), env.postLikes(t, 5))
}

func TestUnlikePost_NeverNegative(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "author")
	env.seedPost(t, 5, 1)

	_, err := env.interactions.UnlikePost(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotLiked)
	assert.EqualError(t, err, "You haven't liked this post")
	assert.Equal(t, int64(0), env.postLikes(t, 5))
}

func TestLikePost_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "author")
	env.seedPost(t, 5, 1)

	_, err := env.interactions.LikePost(context.Background(), 0, 5)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.EqualError(t, err, "You must be logged in to like posts")

	_, err = env.interactions.UnlikePost(context.Background(), 0, 5)
	assert.EqualError(t, err, "You must be logged in to unlike posts")

	_, err = env.interactions.SharePost(context.Background(), 0, 5)
	assert.EqualError(t, err, "You must be logged in to share posts")

	assert.Equal(t, int64(0), env.postLikes(t, 5))
	assert.Empty(t, env.producer.Events())
	assert.False(t, env.mr.Exists(consts.PostDirtyKey))
}

func TestLikePost_MissingPost(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "reader")

	_, err := env.interactions.LikePost(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.EqualError(t, err, "Post not found")

	_, err = env.interactions.SharePost(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikePost_TwoUsersScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "one")
	env.seedUser(t, 2, "two")
	env.seedUser(t, 3, "author")
	env.seedPost(t, 5, 3)

	steps := []struct {
		user  uint64
		like  bool
		likes int64
	}{
		{user: 1, like: true, likes: 1},
		{user: 2, like: true, likes: 2},
		{user: 1, like: false, likes: 1},
		{user: 1, like: true, likes: 2},
	}
	for _, step := range steps {
		var err error
		if step.like {
			_, err = env.interactions.LikePost(ctx, step.user, 5)
		} else {
			_, err = env.interactions.UnlikePost(ctx, step.user, 5)
		}
		require.NoError(t, err)
		assert.Equal(t, step.likes, env.postLikes(t, 5))
	}

	count, err := env.interactionRepo.CountLiked(ctx, "post", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSharePost_CountsEveryCall(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	for i := 0; i < 3; i++ {
		_, err := env.interactions.SharePost(context.Background(), 2, 5)
		require.NoError(t, err)
	}
	post, err := env.postRepo.GetPostById(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), post.Shares)

	events := env.producer.Events()
	require.Len(t, events, 3)
	assert.Equal(t, kafka.EventSharePost, events[0].Type)
	assert.Equal(t, uint64(1), events[0].ReceiverID)
}

func TestLikeComment_Scenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 7, "liker")
	env.seedUser(t, 8, "writer")
	env.seedPost(t, 5, 8)
	env.seedComment(t, 42, 5, 8)

	comment, err := env.interactions.LikeComment(ctx, 7, 42)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, comment.LikedBy)
	assert.Equal(t, int64(1), comment.Likes)

	_, err = env.interactions.LikeComment(ctx, 7, 42)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.EqualError(t, err, "You already liked this comment")

	comment, err = env.comments.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, comment.LikedBy)
	assert.Equal(t, int64(1), comment.Likes)

	comment, err = env.interactions.UnlikeComment(ctx, 7, 42)
	require.NoError(t, err)
	assert.Empty(t, comment.LikedBy)
	assert.Equal(t, int64(0), comment.Likes)

	_, err = env.interactions.UnlikeComment(ctx, 7, 42)
	assert.ErrorIs(t, err, ErrNotLiked)

	_, err = env.interactions.LikeComment(ctx, 7, 999)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestFollowUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")

	_, err := env.interactions.FollowUser(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrFollowSelf)
	_, err = env.interactions.FollowUser(ctx, 99, 99)
	assert.ErrorIs(t, err, ErrFollowSelf)

	_, err = env.interactions.FollowUser(ctx, 1, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	followee, err := env.interactions.FollowUser(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", followee.Name)

	// 重复关注是空操作
	_, err = env.interactions.FollowUser(ctx, 1, 2)
	require.NoError(t, err)

	counts, err := env.interactions.GetFollowCounts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Followers)
	assert.Equal(t, int64(0), counts.Following)

	following, err := env.interactions.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := env.interactions.GetFollowers(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, uint64(1), followers[0].ID)

	_, err = env.interactions.UnfollowUser(ctx, 1, 2)
	require.NoError(t, err)
	_, err = env.interactions.UnfollowUser(ctx, 1, 2)
	require.NoError(t, err)

	counts, err = env.interactions.GetFollowCounts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Followers)

	_, err = env.interactions.FollowUser(ctx, 0, 2)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetPostLikes_CachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	likes, err := env.interactions.GetPostLikes(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.True(t, env.mr.Exists(consts.PostLikeKey+"5"))

	_, err = env.interactions.LikePost(ctx, 2, 5)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(consts.PostLikeKey+"5"))

	likes, err = env.interactions.GetPostLikes(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	likes, err = env.interactions.GetPostLikes(ctx, 404)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)

	members, err := env.mr.SMembers(consts.PostDirtyKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, members)
}

func TestLikePost_Events(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	_, err := env.interactions.LikePost(ctx, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, env.producer.Events(), "liking your own post does not notify")

	_, err = env.interactions.LikePost(ctx, 2, 5)
	require.NoError(t, err)

	events := env.producer.Events()
	require.Len(t, events, 1)
	assert.Equal(t, kafka.EventLikePost, events[0].Type)
	assert.Equal(t, uint64(2), events[0].ActorID)
	assert.Equal(t, uint64(1), events[0].ReceiverID)
	assert.Equal(t, uint64(5), events[0].PostID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestIsPostLiked_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	liked, err := env.interactions.IsPostLiked(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.False(t, liked)
}

// NewMemoryDB 只开一个连接，事务在连接上排队；这里校验的是并发调用下计数与有效点赞行一致
func TestLikePost_ConcurrentCallsKeepCounterConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedPost(t, 5, 1)

	const users = 20
	for i := uint64(0); i < users; i++ {
		env.seedUser(t, 100+i, "reader"+strconv.FormatUint(i, 10))
	}

	var wg sync.WaitGroup
	for i := uint64(0); i < users; i++ {
		userID := 100 + i
		for _, like := range []bool{true, false, true} {
			wg.Add(1)
			go func(like bool) {
				defer wg.Done()
				if like {
					_, _ = env.interactions.LikePost(ctx, userID, 5)
				} else {
					_, _ = env.interactions.UnlikePost(ctx, userID, 5)
				}
			}(like)
		}
	}
	wg.Wait()

	active, err := env.interactionRepo.CountLiked(ctx, "post", 5)
	require.NoError(t, err)
	assert.Equal(t, active, env.postLikes(t, 5))
	assert.GreaterOrEqual(t, active, int64(0))
	assert.LessOrEqual(t, active, int64(users))
}

func TestLikePost_ConcurrentDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.interactions.LikePost(ctx, 2, 5)
		}(i)
	}
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if errors.Is(err, ErrAlreadyLiked) {
			conflicts++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, int64(1), env.postLikes(t, 5))
}

func TestSharePost_InvalidatesCachedCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	_, err := env.interactions.GetPostLikes(ctx, 5)
	require.NoError(t, err)
	require.True(t, env.mr.Exists(consts.PostLikeKey+"5"))

	_, err = env.interactions.SharePost(ctx, 2, 5)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(consts.PostLikeKey+"5"))
}
