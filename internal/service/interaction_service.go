package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const cacheExpiration = 7 * 24 * time.Hour

// FollowCounts 用户粉丝数与关注数
type FollowCounts struct {
	Followers int64
	Following int64
}

type InteractionService interface {
	LikePost(ctx context.Context, userID, postID uint64) (*model.Post, error)
	UnlikePost(ctx context.Context, userID, postID uint64) (*model.Post, error)
	SharePost(ctx context.Context, userID, postID uint64) (*model.Post, error)
	IsPostLiked(ctx context.Context, userID, postID uint64) (bool, error)
	GetPostLikes(ctx context.Context, postID uint64) (int64, error)

	LikeComment(ctx context.Context, userID, commentID uint64) (*model.Comment, error)
	UnlikeComment(ctx context.Context, userID, commentID uint64) (*model.Comment, error)

	FollowUser(ctx context.Context, followerID, followeeID uint64) (*model.User, error)
	UnfollowUser(ctx context.Context, followerID, followeeID uint64) (*model.User, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error)
	GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.User, error)
	GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.User, error)
	GetFollowCounts(ctx context.Context, userID uint64) (*FollowCounts, error)

	SyncLikeCounts(ctx context.Context, targetType string, ids []uint64) error
}

type interactionServiceImpl struct {
	interactionRepo repository.InteractionRepo
	postRepo        repository.PostRepo
	commentRepo     repository.CommentRepo
	userRepo        repository.UserRepo
	followRepo      repository.UserFollowRepo
	producer        kafka.EventProducer
}

func NewInteractionService(
	interactionRepo repository.InteractionRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	userRepo repository.UserRepo,
	followRepo repository.UserFollowRepo,
	producer kafka.EventProducer,
) InteractionService {
	return &interactionServiceImpl{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		commentRepo:     commentRepo,
		userRepo:        userRepo,
		followRepo:      followRepo,
		producer:        producer,
	}
}

func (s *interactionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("like posts")
	}
	err := s.interactionRepo.Like(ctx, userID, model.TargetPost, postID)
	if err = mapInteractionErr(err, model.TargetPost); err != nil {
		return nil, err
	}

	post, err := s.reloadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.afterPostChange(ctx, postID)
	s.publish(ctx, &kafka.InteractionEvent{
		Type:       kafka.EventLikePost,
		ActorID:    userID,
		ReceiverID: post.AuthorID,
		TargetID:   postID,
		PostID:     postID,
		Snippet:    snippet(post.Title),
	})
	return post, nil
}

func (s *interactionServiceImpl) UnlikePost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("unlike posts")
	}
	err := s.interactionRepo.Unlike(ctx, userID, model.TargetPost, postID)
	if err = mapInteractionErr(err, model.TargetPost); err != nil {
		return nil, err
	}

	post, err := s.reloadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.afterPostChange(ctx, postID)
	return post, nil
}

// SharePost 分享不做幂等校验，每次调用都会累加
func (s *interactionServiceImpl) SharePost(ctx context.Context, userID, postID uint64) (*model.Post, error) {
	if userID == 0 {
		return nil, unauthenticated("share posts")
	}
	found, err := s.postRepo.IncrementShares(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPostNotFound
	}

	s.afterPostChange(ctx, postID)

	post, err := s.reloadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &kafka.InteractionEvent{
		Type:       kafka.EventSharePost,
		ActorID:    userID,
		ReceiverID: post.AuthorID,
		TargetID:   postID,
		PostID:     postID,
		Snippet:    snippet(post.Title),
	})
	return post, nil
}

func (s *interactionServiceImpl) IsPostLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.interactionRepo.IsLiked(ctx, userID, model.TargetPost, postID)
}

// GetPostLikes 读取帖子点赞计数，优先走缓存，帖子不存在时返回 0
func (s *interactionServiceImpl) GetPostLikes(ctx context.Context, postID uint64) (int64, error) {
	key := consts.PostLikeKey + strconv.FormatUint(postID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	if !redis.IsNil(err) {
		log.WarnContext(ctx, "read post like cache failed", "postID", postID, "err", err)
	}

	likes, found, err := s.postRepo.GetPostLikes(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	_ = redis.SetWithExpiration(ctx, key, likes, cacheExpiration)
	return likes, nil
}

func (s *interactionServiceImpl) LikeComment(ctx context.Context, userID, commentID uint64) (*model.Comment, error) {
	if userID == 0 {
		return nil, unauthenticated("like comments")
	}
	err := s.interactionRepo.Like(ctx, userID, model.TargetComment, commentID)
	if err = mapInteractionErr(err, model.TargetComment); err != nil {
		return nil, err
	}

	comment, err := s.reloadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	s.afterCommentChange(ctx, commentID)
	s.publish(ctx, &kafka.InteractionEvent{
		Type:       kafka.EventLikeComment,
		ActorID:    userID,
		ReceiverID: comment.AuthorID,
		TargetID:   commentID,
		PostID:     comment.PostID,
		Snippet:    snippet(comment.Content),
	})
	return comment, nil
}

func (s *interactionServiceImpl) UnlikeComment(ctx context.Context, userID, commentID uint64) (*model.Comment, error) {
	if userID == 0 {
		return nil, unauthenticated("unlike comments")
	}
	err := s.interactionRepo.Unlike(ctx, userID, model.TargetComment, commentID)
	if err = mapInteractionErr(err, model.TargetComment); err != nil {
		return nil, err
	}

	comment, err := s.reloadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	s.afterCommentChange(ctx, commentID)
	return comment, nil
}

// FollowUser 关注用户，重复关注视为成功
func (s *interactionServiceImpl) FollowUser(ctx context.Context, followerID, followeeID uint64) (*model.User, error) {
	if followerID == 0 {
		return nil, unauthenticated("follow users")
	}
	if followerID == followeeID {
		return nil, ErrFollowSelf
	}
	followee, err := s.getUser(ctx, followeeID)
	if err != nil {
		return nil, err
	}

	err = s.followRepo.CreateUserFollow(ctx, &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followeeID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.afterFollowChange(ctx, followerID, followeeID)
	s.publish(ctx, &kafka.InteractionEvent{
		Type:       kafka.EventFollowUser,
		ActorID:    followerID,
		ReceiverID: followeeID,
		TargetID:   followeeID,
	})
	return followee, nil
}

// UnfollowUser 取消关注，未关注时同样视为成功
func (s *interactionServiceImpl) UnfollowUser(ctx context.Context, followerID, followeeID uint64) (*model.User, error) {
	if followerID == 0 {
		return nil, unauthenticated("unfollow users")
	}
	followee, err := s.getUser(ctx, followeeID)
	if err != nil {
		return nil, err
	}

	if err = s.followRepo.DeleteUserFollow(ctx, followerID, followeeID); err != nil {
		return nil, err
	}

	s.afterFollowChange(ctx, followerID, followeeID)
	return followee, nil
}

func (s *interactionServiceImpl) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followerID == followeeID {
		return false, nil
	}
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *interactionServiceImpl) GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.User, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetUserFollowers(ctx, userID, normalizeLimit(limit), offset)
}

func (s *interactionServiceImpl) GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.User, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetUserFollowing(ctx, userID, normalizeLimit(limit), offset)
}

// GetFollowCounts 并发读取粉丝数与关注数
func (s *interactionServiceImpl) GetFollowCounts(ctx context.Context, userID uint64) (*FollowCounts, error) {
	counts := &FollowCounts{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.cachedCount(gCtx, consts.UserFollowerCountKey, userID, s.followRepo.GetUserFollowerCount)
		counts.Followers = n
		return err
	})
	g.Go(func() error {
		n, err := s.cachedCount(gCtx, consts.UserFollowingCountKey, userID, s.followRepo.GetUserFollowingCount)
		counts.Following = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// SyncLikeCounts 按 interactions 中的有效点赞重算计数并清理缓存
func (s *interactionServiceImpl) SyncLikeCounts(ctx context.Context, targetType string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.interactionRepo.SyncLikeCounts(ctx, targetType, ids); err != nil {
		return err
	}

	prefix := consts.PostLikeKey
	if targetType == model.TargetComment {
		prefix = consts.CommentLikeKey
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, prefix+strconv.FormatUint(id, 10))
	}
	if err := redis.DeleteKey(ctx, keys...); err != nil {
		log.WarnContext(ctx, "invalidate like cache failed", "targetType", targetType, "err", err)
	}
	return nil
}

func (s *interactionServiceImpl) cachedCount(
	ctx context.Context,
	prefix string,
	userID uint64,
	load func(context.Context, uint64) (int64, error),
) (int64, error) {
	key := prefix + strconv.FormatUint(userID, 10)
	if count, err := redis.GetInt64(ctx, key); err == nil {
		return count, nil
	}
	count, err := load(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, count, cacheExpiration)
	return count, nil
}

func (s *interactionServiceImpl) getUser(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *interactionServiceImpl) reloadPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *interactionServiceImpl) reloadComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if err = fillLikedBy(ctx, s.interactionRepo, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// afterPostChange 事务提交后清理计数缓存并登记到对账集合，失败只记录日志
func (s *interactionServiceImpl) afterPostChange(ctx context.Context, postID uint64) {
	id := strconv.FormatUint(postID, 10)
	if err := redis.DeleteKey(ctx, consts.PostLikeKey+id); err != nil {
		log.WarnContext(ctx, "invalidate post like cache failed", "postID", postID, "err", err)
	}
	if err := redis.SAdd(ctx, consts.PostDirtyKey, id); err != nil {
		log.WarnContext(ctx, "mark post dirty failed", "postID", postID, "err", err)
	}
}

func (s *interactionServiceImpl) afterCommentChange(ctx context.Context, commentID uint64) {
	id := strconv.FormatUint(commentID, 10)
	if err := redis.DeleteKey(ctx, consts.CommentLikeKey+id); err != nil {
		log.WarnContext(ctx, "invalidate comment like cache failed", "commentID", commentID, "err", err)
	}
	if err := redis.SAdd(ctx, consts.CommentLikeDirtyKey, id); err != nil {
		log.WarnContext(ctx, "mark comment dirty failed", "commentID", commentID, "err", err)
	}
}

func (s *interactionServiceImpl) afterFollowChange(ctx context.Context, followerID, followeeID uint64) {
	err := redis.DeleteKey(ctx,
		consts.UserFollowerCountKey+strconv.FormatUint(followeeID, 10),
		consts.UserFollowingCountKey+strconv.FormatUint(followerID, 10),
	)
	if err != nil {
		log.WarnContext(ctx, "invalidate follow count cache failed", "follower", followerID, "followee", followeeID, "err", err)
	}
}

func (s *interactionServiceImpl) publish(ctx context.Context, event *kafka.InteractionEvent) {
	if event.ReceiverID == 0 || event.ReceiverID == event.ActorID {
		return
	}
	event.CreatedAt = time.Now()
	event.TraceID = logger.TraceID(ctx)
	if err := s.producer.Publish(ctx, event); err != nil {
		log.WarnContext(ctx, "publish interaction event failed", "type", event.Type, "err", err)
	}
}

func mapInteractionErr(err error, targetType string) error {
	if err == nil {
		return nil
	}
	noun := targetType
	switch {
	case errors.Is(err, repository.ErrTargetMissing):
		if targetType == model.TargetComment {
			return ErrCommentNotFound
		}
		return ErrPostNotFound
	case errors.Is(err, repository.ErrLikeExists):
		return withMessage(ErrAlreadyLiked, "You already liked this "+noun)
	case errors.Is(err, repository.ErrLikeMissing):
		return withMessage(ErrNotLiked, "You haven't liked this "+noun)
	}
	return err
}

// fillLikedBy 用互动记录填充评论的 LikedBy
func fillLikedBy(ctx context.Context, repo repository.InteractionRepo, comments ...*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	likedBy, err := repo.GetLikedUserIDs(ctx, model.TargetComment, ids)
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.LikedBy = likedBy[c.ID]
		if c.LikedBy == nil {
			c.LikedBy = []uint64{}
		}
	}
	return nil
}

const snippetLen = 80

func snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetLen]) + "..."
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return consts.DefaultPageSize
	}
	if limit > consts.MaxPageSize {
		return consts.MaxPageSize
	}
	return limit
}
