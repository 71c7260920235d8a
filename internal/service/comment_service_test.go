package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, "author")
	env.seedUser(t, 2, "reader")
	env.seedPost(t, 5, 1)

	_, err := env.comments.Create(ctx, 0, 5, "hi")
	assert.EqualError(t, err, "You must be logged in to create a comment")

	_, err = env.comments.Create(ctx, 2, 5, "   ")
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = env.comments.Create(ctx, 2, 5, strings.Repeat("a", maxCommentLen+1))
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = env.comments.Create(ctx, 2, 404, "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)

	comment, err := env.comments.Create(ctx, 2, 5, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", comment.Content)
	assert.Equal(t, "reader", comment.Author.Name)
	assert.NotNil(t, comment.LikedBy)
	assert.Empty(t, comment.LikedBy)

	_, err = env.comments.Update(ctx, 1, comment.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.EqualError(t, err, "You can only update your own comments")

	updated, err := env.comments.Update(ctx, 2, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = env.interactions.LikeComment(ctx, 1, comment.ID)
	require.NoError(t, err)

	list, err := env.comments.ListByPost(ctx, 5, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []uint64{1}, list[0].LikedBy)

	_, err = env.comments.Delete(ctx, 1, comment.ID)
	assert.EqualError(t, err, "You can only delete your own comments")

	deleted, err := env.comments.Delete(ctx, 2, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", deleted.Content)

	_, err = env.comments.Get(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	liked, err := env.interactionRepo.IsLiked(ctx, 1, "comment", comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}
