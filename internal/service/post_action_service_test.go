package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newActionFixture(t *testing.T) (PostActionService, *fakePostRepo, *fakeUserRepo, string) {
	t.Helper()

	postRepo := newFakePostRepo()
	userRepo := newFakeUserRepo()

	post, err := NewPostService(postRepo, userRepo).CreatePost(context.Background(), 1, validBaseDTO("Action Target"), nil)
	require.NoError(t, err)

	return NewPostActionService(postRepo, userRepo), postRepo, userRepo, post.ID
}

func TestToggleLike(t *testing.T) {
	svc, repo, _, postID := newActionFixture(t)
	ctx := context.Background()

	liked, err := svc.ToggleLike(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, int64(1), liked.LikesCount)

	// 第二次翻转回到未点赞，计数随集合回落
	unliked, err := svc.ToggleLike(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, int64(0), unliked.LikesCount)

	// 两个用户互不影响
	_, err = svc.ToggleLike(ctx, 7, postID)
	require.NoError(t, err)
	result, err := svc.ToggleLike(ctx, 8, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.LikesCount)

	stored, err := repo.GetPostById(ctx, mustObjectID(t, postID))
	require.NoError(t, err)
	assert.Equal(t, int64(len(stored.LikedUsers)), stored.LikesCount)
}

func TestToggleLike_PostMissing(t *testing.T) {
	svc, _, _, _ := newActionFixture(t)

	_, err := svc.ToggleLike(context.Background(), 7, "65f000000000000000000000")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.ToggleLike(context.Background(), 7, "garbage")
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestToggleBookmark(t *testing.T) {
	svc, _, _, postID := newActionFixture(t)
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, on.Bookmarked)

	off, err := svc.ToggleBookmark(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, off.Bookmarked)
}

func TestCommentLifecycle(t *testing.T) {
	svc, repo, _, postID := newActionFixture(t)
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, 7, "alice", postID, &dto.CommentCreateDTO{Text: "nice post"})
	require.NoError(t, err)
	assert.Equal(t, "alice", comment.Username)
	assert.Equal(t, "nice post", comment.Text)

	stored, err := repo.GetPostById(ctx, mustObjectID(t, postID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.CommentsCount)

	// 非作者既不能改也不能删
	_, err = svc.UpdateComment(ctx, 8, postID, comment.ID, &dto.CommentEditDTO{Text: "hijacked"})
	assert.ErrorIs(t, err, UnauthorizedError)
	err = svc.DeleteComment(ctx, 8, postID, comment.ID)
	assert.ErrorIs(t, err, UnauthorizedError)

	edited, err := svc.UpdateComment(ctx, 7, postID, comment.ID, &dto.CommentEditDTO{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)
	assert.Equal(t, comment.ID, edited.ID)

	views, err := svc.GetComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "edited", views[0].Text)

	err = svc.DeleteComment(ctx, 7, postID, comment.ID)
	require.NoError(t, err)

	stored, err = repo.GetPostById(ctx, mustObjectID(t, postID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.CommentsCount)
	assert.Empty(t, stored.Comments)
}

func TestCreateComment_EmptyText(t *testing.T) {
	svc, _, _, postID := newActionFixture(t)

	_, err := svc.CreateComment(context.Background(), 7, "alice", postID, &dto.CommentCreateDTO{Text: "   "})
	assert.ErrorIs(t, err, ErrCommentEmpty)
}

func TestUpdateComment_NotFound(t *testing.T) {
	svc, _, _, postID := newActionFixture(t)

	_, err := svc.UpdateComment(context.Background(), 7, postID, "65f000000000000000000001", &dto.CommentEditDTO{Text: "x"})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestGetComments_AuthorEnrichment(t *testing.T) {
	svc, _, userRepo, postID := newActionFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.CreateUser(ctx, &model.User{
		Username:  "alice-renamed",
		Email:     "alice@example.com",
		AvatarURL: "https://cdn.example/alice.png",
	}))

	// 评论落库时记的是当时的用户名，展示时以用户库为准
	_, err := svc.CreateComment(ctx, 1, "alice", postID, &dto.CommentCreateDTO{Text: "hello"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, 99, "ghost", postID, &dto.CommentCreateDTO{Text: "still here"})
	require.NoError(t, err)

	views, err := svc.GetComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "alice-renamed", views[0].Username)
	assert.Equal(t, "https://cdn.example/alice.png", views[0].AvatarURL)

	// 作者已不在用户库，回退冗余用户名和默认头像
	assert.Equal(t, "ghost", views[1].Username)
	assert.NotEmpty(t, views[1].AvatarURL)
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return oid
}
