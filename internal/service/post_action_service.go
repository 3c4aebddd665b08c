package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/repository"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostActionService interface {
	ToggleLike(ctx context.Context, userID uint64, postID string) (*dto.LikeResultDTO, error)
	ToggleBookmark(ctx context.Context, userID uint64, postID string) (*dto.BookmarkResultDTO, error)

	GetComments(ctx context.Context, postID string) ([]*dto.CommentViewDTO, error)
	CreateComment(ctx context.Context, userID uint64, username, postID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, userID uint64, postID, commentID string, req *dto.CommentEditDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID uint64, postID, commentID string) error
}

type postActionServiceImpl struct {
	postRepo repository.PostRepo
	userRepo repository.UserRepo
}

func NewPostActionService(postRepo repository.PostRepo, userRepo repository.UserRepo) PostActionService {
	return &postActionServiceImpl{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// ToggleLike 点赞翻转，身份取当前登录用户，返回翻转后的状态和计数
func (s *postActionServiceImpl) ToggleLike(ctx context.Context, userID uint64, postID string) (*dto.LikeResultDTO, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	post, err := s.postRepo.ToggleLike(ctx, oid, userID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return &dto.LikeResultDTO{
		Liked:      post.IsLikedBy(userID),
		LikesCount: post.LikesCount,
	}, nil
}

// ToggleBookmark 收藏翻转
func (s *postActionServiceImpl) ToggleBookmark(ctx context.Context, userID uint64, postID string) (*dto.BookmarkResultDTO, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	post, err := s.postRepo.ToggleBookmark(ctx, oid, userID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return &dto.BookmarkResultDTO{
		Bookmarked: post.IsBookmarkedBy(userID),
	}, nil
}

// GetComments 返回帖子的全部评论，作者信息从用户库实时补全。
// 补全失败只降级为落库时的用户名和默认头像，不让整个请求失败
func (s *postActionServiceImpl) GetComments(ctx context.Context, postID string) ([]*dto.CommentViewDTO, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	post, err := s.postRepo.GetPostById(ctx, oid)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	userMap := s.lookupAuthors(ctx, post.Comments)
	defaultAvatar := minio.GetPublicURL(consts.AvatarFolder + consts.DefaultAvatarURL)

	views := make([]*dto.CommentViewDTO, len(post.Comments))
	for i, c := range post.Comments {
		view := &dto.CommentViewDTO{
			ID:        c.ID.Hex(),
			UserID:    c.UserID,
			Username:  c.Username,
			AvatarURL: defaultAvatar,
			Text:      c.Text,
			CreatedAt: c.CreatedAt.Format(timeLayout),
		}
		if u, ok := userMap[c.UserID]; ok {
			view.Username = u.Username
			if u.AvatarURL != "" {
				view.AvatarURL = u.AvatarURL
			}
		}
		views[i] = view
	}
	return views, nil
}

// lookupAuthors 批量查询评论作者，失败降级为空映射
func (s *postActionServiceImpl) lookupAuthors(ctx context.Context, comments []model.Comment) map[uint64]*model.User {
	ids := make([]uint64, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	return lookupUsersByIds(ctx, s.userRepo, ids)
}

// CreateComment 在帖子内追加评论，用户名冗余落库，方便作者注销后仍能展示
func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, username, postID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	comment := &model.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now(),
	}

	matched, err := s.postRepo.AddComment(ctx, oid, comment)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrPostNotFound
	}

	return &dto.CommentDTO{
		ID:        comment.ID.Hex(),
		UserID:    comment.UserID,
		Username:  comment.Username,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format(timeLayout),
	}, nil
}

// UpdateComment 仅评论作者可改。先读一次用于区分"评论不存在"
// 和"不是作者"，真正的作者校验由存储层过滤条件原子完成
func (s *postActionServiceImpl) UpdateComment(ctx context.Context, userID uint64, postID, commentID string, req *dto.CommentEditDTO) (*dto.CommentDTO, error) {
	oid, cid, err := parseCommentPath(postID, commentID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	comment, err := s.checkCommentAuthor(ctx, oid, cid, userID)
	if err != nil {
		return nil, err
	}

	matched, err := s.postRepo.UpdateCommentText(ctx, oid, cid, userID, text)
	if err != nil {
		return nil, err
	}
	if !matched {
		// 预检之后评论被并发删除或转移，按不存在处理
		return nil, ErrCommentNotFound
	}

	return &dto.CommentDTO{
		ID:        comment.ID.Hex(),
		UserID:    comment.UserID,
		Username:  comment.Username,
		Text:      text,
		CreatedAt: comment.CreatedAt.Format(timeLayout),
	}, nil
}

// DeleteComment 仅评论作者可删，计数在同一次写入中回落
func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID uint64, postID, commentID string) error {
	oid, cid, err := parseCommentPath(postID, commentID)
	if err != nil {
		return err
	}

	if _, err := s.checkCommentAuthor(ctx, oid, cid, userID); err != nil {
		return err
	}

	matched, err := s.postRepo.RemoveComment(ctx, oid, cid, userID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrCommentNotFound
	}
	return nil
}

// checkCommentAuthor 区分帖子缺失、评论缺失和越权三种失败
func (s *postActionServiceImpl) checkCommentAuthor(ctx context.Context, postID, commentID primitive.ObjectID, userID uint64) (*model.Comment, error) {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			if post.Comments[i].UserID != userID {
				return nil, UnauthorizedError
			}
			return &post.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

func parseCommentPath(postID, commentID string) (primitive.ObjectID, primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrParamInvalid
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrParamInvalid
	}
	return oid, cid, nil
}
