package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/security"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strings"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.CredentialDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	UpdateAvatar(ctx context.Context, userID uint64, objectKey string) (*dto.AvatarResultDTO, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

// Register 注册新用户，用户名和邮箱都要求唯一
func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" {
		return nil, ErrParamInvalid
	}

	existing, err := s.userRepo.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		AvatarURL: minio.GetPublicURL(consts.AvatarFolder + consts.DefaultAvatarURL),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return toUserDTO(user, true), nil
}

// Login 校验凭证并签发 Token。
// 用户不存在与密码错误返回同一个错误，不泄露邮箱是否注册
func (s *userServiceImpl) Login(ctx context.Context, req *dto.CredentialDTO) (*dto.LoginResultDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPasswordIncorrect
	}

	if err := security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResultDTO{
		Token: token,
		User:  toUserDTO(user, true),
	}, nil
}

// Logout 将 Token 签名拉黑到其自然过期为止
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistPrefix+signature, "1", security.JWTExpirationTime)
}

// GetUserInfo 公开资料查询，不含邮箱
func (s *userServiceImpl) GetUserInfo(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, false), nil
}

// UpdateAvatar 更新头像指向新对象，旧对象尽力清理。
// 默认头像没有 AvatarKey，不会被误删
func (s *userServiceImpl) UpdateAvatar(ctx context.Context, userID uint64, objectKey string) (*dto.AvatarResultDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	avatarURL := minio.GetPublicURL(objectKey)
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL, objectKey); err != nil {
		return nil, err
	}

	if user.AvatarKey != "" {
		if err := minio.DeleteFile(ctx, user.AvatarKey); err != nil {
			log.Warn("failed to delete old avatar", "avatar_key", user.AvatarKey, "err", err)
		}
	}

	return &dto.AvatarResultDTO{AvatarURL: avatarURL}, nil
}

func toUserDTO(user *model.User, withEmail bool) *dto.UserDTO {
	out := &dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
	if withEmail {
		out.Email = user.Email
		createdAt := user.CreatedAt
		out.CreatedAt = &createdAt
	}
	return out
}
