package dto

import (
	"Inkwell/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

// UserDTO 对外暴露的用户信息，不含密码
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserDTO(user *model.User) *UserDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	out := &UserDTO{}
	_ = copier.Copy(out, user)
	return out
}

func ToUserDTOs(users []*model.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		if d := ToUserDTO(u); d != nil {
			out = append(out, d)
		}
	}
	return out
}
