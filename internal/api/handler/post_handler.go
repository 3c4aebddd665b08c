package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/service"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	log "log/slog"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// CreatePost 创建帖子。纯 JSON 与 multipart 两种提交方式都支持：
// multipart 时结构化字段以字符串形式随表单提交，随附图片先传对象存储，
// 任何一张失败就中止创建并清理已传对象，不落半成品帖子
func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var base dto.PostBaseDTO
	var images []model.ImageRef

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		base = dto.PostBaseDTO{
			Title:        c.PostForm("title"),
			Subtitle:     c.PostForm("subtitle"),
			Blocks:       json.RawMessage(c.PostForm("blocks")),
			ProductLinks: json.RawMessage(c.PostForm("productLinks")),
			Category:     c.PostForm("category"),
		}

		form, err := c.MultipartForm()
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		images, err = s.uploadPostImages(c, form.File["images"])
		if err != nil {
			response.Error(c, err)
			return
		}
	} else {
		if err := c.ShouldBindJSON(&base); err != nil {
			response.Error(c, err)
			return
		}
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &base, images)
	if err != nil {
		// 创建失败时随帖上传的图片已经无主，尽力回收
		s.cleanupImages(c, images)
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// uploadPostImages 顺序上传随帖图片，单张失败即中止并回收已传对象
func (s *PostHandler) uploadPostImages(c *gin.Context, files []*multipart.FileHeader) ([]model.ImageRef, error) {
	images := make([]model.ImageRef, 0, len(files))

	for _, file := range files {
		ref, err := uploadImageFile(c, file, consts.PostImageFolder)
		if err != nil {
			s.cleanupImages(c, images)
			return nil, err
		}
		images = append(images, *ref)
	}
	return images, nil
}

func (s *PostHandler) cleanupImages(c *gin.Context, images []model.ImageRef) {
	for _, img := range images {
		if err := minio.DeleteFile(c.Request.Context(), img.StorageID); err != nil {
			log.WarnContext(c, "failed to clean up uploaded image", "storage_id", img.StorageID, "err", err)
		}
	}
}

// uploadImageFile 校验并上传单个图片文件
func uploadImageFile(c *gin.Context, file *multipart.FileHeader, folder string) (*model.ImageRef, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, service.ErrParamInvalid
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		return nil, service.UnExpectedError
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, service.ErrFileNotSupported
	}

	ext := path.Ext(file.Filename)
	objectName := folder + uuid.NewString() + ext

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "object", objectName, "err", err)
		return nil, service.ErrStorage
	}

	return &model.ImageRef{
		URL:       minio.GetPublicURL(fileKey),
		StorageID: fileKey,
	}, nil
}

// UploadImage 编辑器内联图片上传，独立于帖子生命周期
func (s *PostHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	ref, err := uploadImageFile(c, file, consts.EditorImageFolder)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UploadImageResultDTO{
		URL:       ref.URL,
		StorageID: ref.StorageID,
	})
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	var query dto.PostQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postSvc.ListPosts(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostHandler) GetPostById(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	post, err := s.postSvc.GetPostById(c.Request.Context(), viewerID, c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPostBySlug(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	post, err := s.postSvc.GetPostBySlug(c.Request.Context(), viewerID, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPostsByUserId(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	posts, err := s.postSvc.GetPostsByUserId(c.Request.Context(), viewerID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	err := s.postSvc.DeletePost(c.Request.Context(), userID, c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
