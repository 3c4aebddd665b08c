package service

import (
	"Inkstone/internal/api/dto"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.AvatarURL)

	// 密码散列落库，绝不存明文
	stored, err := repo.GetUserById(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUserExist)

	_, err = svc.Register(ctx, &dto.RegisterDTO{
		Username: "bob", Email: "alice@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUserExist)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &dto.CredentialDTO{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)

	// 密码错误与邮箱未注册返回同一个错误
	_, err = svc.Login(ctx, &dto.CredentialDTO{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	_, err = svc.Login(ctx, &dto.CredentialDTO{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
}

func TestGetUserInfo(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterDTO{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	info, err := svc.GetUserInfo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	// 公开资料不暴露邮箱
	assert.Empty(t, info.Email)

	_, err = svc.GetUserInfo(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
