package dto

import (
	"Inkwell/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

type CommentDTO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"postId"`
	AuthorID  uint64    `json:"authorId"`
	Content   string    `json:"content"`
	Likes     int64     `json:"likes"`
	LikedBy   []uint64  `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *UserDTO `json:"author" copier:"-"`
	// Post 仅在单条评论查询时预加载，不含评论列表
	Post *PostDTO `json:"post,omitempty" copier:"-"`
}

func ToCommentDTO(comment *model.Comment) *CommentDTO {
	if comment == nil {
		return nil
	}
	out := &CommentDTO{}
	_ = copier.Copy(out, comment)
	out.Author = ToUserDTO(&comment.Author)
	if comment.Post.ID != 0 {
		out.Post = ToPostDTO(&comment.Post)
	}
	return out
}

func ToCommentDTOs(comments []*model.Comment) []*CommentDTO {
	out := make([]*CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentDTO(c))
	}
	return out
}
