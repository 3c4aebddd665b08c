package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		actionSvc: actionSvc,
	}
}

// LikePost 点赞翻转，身份取自登录态而非请求体
func (s *PostActionHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	result, err := s.actionSvc.ToggleLike(c.Request.Context(), userID, c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BookmarkPost 收藏翻转
func (s *PostActionHandler) BookmarkPost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	result, err := s.actionSvc.ToggleBookmark(c.Request.Context(), userID, c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostActionHandler) GetComments(c *gin.Context) {
	comments, err := s.actionSvc.GetComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	username := c.GetString("username")

	var req dto.CommentCreateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.actionSvc.CreateComment(c.Request.Context(), userID, username, c.Param("post_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) UpdateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CommentEditDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.actionSvc.UpdateComment(c.Request.Context(), userID, c.Param("post_id"), c.Param("comment_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")

	err := s.actionSvc.DeleteComment(c.Request.Context(), userID, c.Param("post_id"), c.Param("comment_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
