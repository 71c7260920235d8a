package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"context"
	"strings"
	"unicode/utf8"
)

const maxCommentLen = 5000

type CommentService interface {
	ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error)
	Get(ctx context.Context, id uint64) (*model.Comment, error)
	Create(ctx context.Context, userID, postID uint64, content string) (*model.Comment, error)
	Update(ctx context.Context, userID, id uint64, content string) (*model.Comment, error)
	Delete(ctx context.Context, userID, id uint64) (*model.Comment, error)
	LikedBy(ctx context.Context, ids []uint64) (map[uint64][]uint64, error)
}

type commentServiceImpl struct {
	commentRepo     repository.CommentRepo
	postRepo        repository.PostRepo
	interactionRepo repository.InteractionRepo
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	interactionRepo repository.InteractionRepo,
) CommentService {
	return &commentServiceImpl{
		commentRepo:     commentRepo,
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *commentServiceImpl) ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error) {
	comments, err := s.commentRepo.GetCommentsByPostID(ctx, postID, normalizeLimit(limit), max(offset, 0))
	if err != nil {
		return nil, err
	}
	if err = fillLikedBy(ctx, s.interactionRepo, comments...); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *commentServiceImpl) Get(ctx context.Context, id uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
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

func (s *commentServiceImpl) Create(ctx context.Context, userID, postID uint64, content string) (*model.Comment, error) {
	if userID == 0 {
		return nil, unauthenticated("create a comment")
	}
	content, err := checkCommentContent(content)
	if err != nil {
		return nil, err
	}
	authorID, err := s.postRepo.GetPostAuthorID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID == 0 {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.Get(ctx, comment.ID)
}

func (s *commentServiceImpl) Update(ctx context.Context, userID, id uint64, content string) (*model.Comment, error) {
	if userID == 0 {
		return nil, unauthenticated("update a comment")
	}
	content, err := checkCommentContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, withMessage(ErrForbidden, "You can only update your own comments")
	}

	if err = s.commentRepo.UpdateCommentContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *commentServiceImpl) Delete(ctx context.Context, userID, id uint64) (*model.Comment, error) {
	if userID == 0 {
		return nil, unauthenticated("delete a comment")
	}
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, withMessage(ErrForbidden, "You can only delete your own comments")
	}

	if err = s.commentRepo.DeleteComment(ctx, id); err != nil {
		return nil, err
	}
	return comment, nil
}

// LikedBy 批量读取评论的点赞用户，用于帖子聚合中的评论列表
func (s *commentServiceImpl) LikedBy(ctx context.Context, ids []uint64) (map[uint64][]uint64, error) {
	if len(ids) == 0 {
		return map[uint64][]uint64{}, nil
	}
	return s.interactionRepo.GetLikedUserIDs(ctx, model.TargetComment, ids)
}

func checkCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", paramError("Comment content cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", paramError("Comment is too long")
	}
	return content, nil
}
