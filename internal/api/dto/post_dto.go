package dto

import (
	"Inkwell/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

// PostDTO 帖子聚合：作者、分类、按顺序排列的图片以及评论
type PostDTO struct {
	ID         uint64    `json:"id"`
	AuthorID   uint64    `json:"authorId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CoverImage *string   `json:"coverImage,omitempty"`
	Published  bool      `json:"published"`
	Likes      int64     `json:"likes"`
	Shares     int64     `json:"shares"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Author     *UserDTO       `json:"author" copier:"-"`
	Categories []*CategoryDTO `json:"categories" copier:"-"`
	Images     []*ImageDTO    `json:"images" copier:"-"`
	Comments   []*CommentDTO  `json:"comments" copier:"-"`
}

type ImageDTO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"postId"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	Caption   *string   `json:"caption,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToPostDTO(post *model.Post) *PostDTO {
	if post == nil {
		return nil
	}
	out := &PostDTO{}
	_ = copier.Copy(out, post)

	out.Author = ToUserDTO(&post.Author)
	out.Categories = make([]*CategoryDTO, 0, len(post.Categories))
	for i := range post.Categories {
		out.Categories = append(out.Categories, ToCategoryDTO(&post.Categories[i]))
	}
	out.Images = make([]*ImageDTO, 0, len(post.Images))
	for i := range post.Images {
		img := &ImageDTO{}
		_ = copier.Copy(img, &post.Images[i])
		img.Order = post.Images[i].SortOrder
		out.Images = append(out.Images, img)
	}
	out.Comments = make([]*CommentDTO, 0, len(post.Comments))
	for i := range post.Comments {
		out.Comments = append(out.Comments, ToCommentDTO(&post.Comments[i]))
	}
	return out
}

func ToPostDTOs(posts []*model.Post) []*PostDTO {
	out := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostDTO(p))
	}
	return out
}
