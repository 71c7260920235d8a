package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=6,max=72"`
	Name     string `validate:"max=100"`
}

// ProfileInput 资料更新参数，nil 字段保持不变
type ProfileInput struct {
	Name   *string `validate:"omitempty,min=1,max=100"`
	Bio    *string `validate:"omitempty,max=2000"`
	Avatar *string `validate:"omitempty,max=512"`
}

// AuthResult 登录/注册结果
type AuthResult struct {
	Token string
	User  *model.User
}

type UserService interface {
	Register(ctx context.Context, in *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID uint64, in *ProfileInput) (*model.User, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, in *RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExist
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:    in.Email,
		Password: passwordHash,
		Name:     in.Name,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrUserExist
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err = security.CheckPasswordHash(password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}
	return s.issueToken(user)
}

// Logout 将 token 签名加入黑名单，直到 token 自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return ErrUnauthenticated
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrUnauthenticated
	}

	ttl := security.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	if err = redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, ttl); err != nil {
		log.ErrorContext(ctx, "revoke token failed", "userID", claims.UserID, "err", err)
		return err
	}
	return nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserServiceImpl) GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return s.userRepo.GetUserByIds(ctx, ids)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uint64, in *ProfileInput) (*model.User, error) {
	if userID == 0 {
		return nil, unauthenticated("update your profile")
	}
	if in.Name != nil {
		in.Name = util.Ptr(strings.TrimSpace(*in.Name))
	}
	if err := util.ValidateDTO(in); err != nil {
		return nil, paramError(err.Error())
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Bio != nil {
		updates["bio"] = util.TrimPtr(in.Bio)
	}
	if in.Avatar != nil {
		updates["avatar"] = util.TrimPtr(in.Avatar)
	}
	if len(updates) > 0 {
		if err := s.userRepo.UpdateUserProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, userID)
}

func (s *UserServiceImpl) issueToken(user *model.User) (*AuthResult, error) {
	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, errors.Join(UnExpectedError, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
