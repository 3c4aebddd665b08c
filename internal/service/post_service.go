package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const timeLayout = "2006-01-02 15:04:05"

// viewerID 为 0 表示匿名访问，Liked / Bookmarked 恒为 false
type PostService interface {
	CreatePost(ctx context.Context, userID uint64, base *dto.PostBaseDTO, images []model.ImageRef) (*dto.PostDTO, error)
	GetPostById(ctx context.Context, viewerID uint64, postID string) (*dto.PostDTO, error)
	GetPostBySlug(ctx context.Context, viewerID uint64, slug string) (*dto.PostDTO, error)
	ListPosts(ctx context.Context, query *dto.PostQueryDTO) (*dto.PostListDTO, error)
	GetPostsByUserId(ctx context.Context, viewerID, userID uint64) ([]*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID uint64, postID string) error
}

type postServiceImpl struct {
	postRepo repository.PostRepo
	userRepo repository.UserRepo
}

func NewPostService(postRepo repository.PostRepo, userRepo repository.UserRepo) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost 创建帖子。图片在进入这里之前已经上传完毕，
// 上传失败会在处理层中止整个创建，不会落下缺图的半成品帖子
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, base *dto.PostBaseDTO, images []model.ImageRef) (*dto.PostDTO, error) {
	title := strings.TrimSpace(base.Title)
	if title == "" || len(title) > 200 {
		return nil, ErrParamInvalid
	}
	if len(base.Subtitle) > 300 {
		return nil, ErrParamInvalid
	}

	blocks, err := NormalizeBlocks(base.Blocks)
	if err != nil {
		return nil, err
	}
	links, err := NormalizeProductLinks(base.ProductLinks)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []model.ImageRef{}
	}

	slug, err := s.resolveSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:          userID,
		Title:           title,
		Subtitle:        strings.TrimSpace(base.Subtitle),
		Slug:            slug,
		Blocks:          blocks,
		Images:          images,
		ProductLinks:    links,
		LikedUsers:      []uint64{},
		BookmarkedUsers: []uint64{},
		Comments:        []model.Comment{},
		Category:        model.ParseCategory(base.Category),
	}

	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		if !errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, err
		}
		// 唯一索引拒掉了并发同名写入，换个新后缀重试一次
		post.Slug = util.TimestampSlug(util.Slugify(title))
		if err = s.postRepo.CreatePost(ctx, post); err != nil {
			return nil, err
		}
	}

	return s.toPostDTO(post, userID, s.authorOf(ctx, userID))
}

// resolveSlug 预查一次占用情况，撞上就加时间戳后缀。
// 预查只是降低冲突概率，唯一性最终由存储层唯一索引保证
func (s *postServiceImpl) resolveSlug(ctx context.Context, title string) (string, error) {
	slug := util.Slugify(title)

	taken, err := s.postRepo.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		slug = util.TimestampSlug(slug)
	}
	return slug, nil
}

func (s *postServiceImpl) GetPostById(ctx context.Context, viewerID uint64, postID string) (*dto.PostDTO, error) {
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
	return s.toPostDTO(post, viewerID, s.authorOf(ctx, post.UserID))
}

func (s *postServiceImpl) GetPostBySlug(ctx context.Context, viewerID uint64, slug string) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.toPostDTO(post, viewerID, s.authorOf(ctx, post.UserID))
}

// ListPosts 分页列表，标题子串过滤，最新在前，作者展示信息批量补全
func (s *postServiceImpl) ListPosts(ctx context.Context, query *dto.PostQueryDTO) (*dto.PostListDTO, error) {
	category := ""
	if query.Category != "" {
		category = string(model.ParseCategory(query.Category))
	}

	offset := int64((query.Page - 1) * query.PageSize)
	posts, total, err := s.postRepo.ListPosts(ctx, category, query.Search, int64(query.PageSize), offset)
	if err != nil {
		return nil, err
	}

	authorIds := make([]uint64, len(posts))
	for i, post := range posts {
		authorIds[i] = post.UserID
	}
	userMap := lookupUsersByIds(ctx, s.userRepo, authorIds)

	summaries := make([]*dto.PostSummaryDTO, len(posts))
	for i, post := range posts {
		item := &dto.PostSummaryDTO{}
		if err := copier.Copy(item, post); err != nil {
			return nil, err
		}
		item.ID = post.ID.Hex()
		item.Category = string(post.Category)
		item.CreatedAt = post.CreatedAt.Format(timeLayout)
		if author, ok := userMap[post.UserID]; ok {
			item.Username = author.Username
			item.AvatarURL = author.AvatarURL
		}
		summaries[i] = item
	}

	return &dto.PostListDTO{
		Posts: summaries,
		Total: total,
	}, nil
}

func (s *postServiceImpl) GetPostsByUserId(ctx context.Context, viewerID, userID uint64) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetPostsByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}

	author := s.authorOf(ctx, userID)
	out := make([]*dto.PostDTO, len(posts))
	for i, post := range posts {
		item, err := s.toPostDTO(post, viewerID, author)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// DeletePost 仅帖主可删。记录删除是权威结果，
// 图片随后逐张同步清理，单张失败只记日志，不阻断其余图片也不回滚删帖
func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrParamInvalid
	}

	post, err := s.postRepo.GetPostById(ctx, oid)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	ok, err := s.postRepo.DeletePost(ctx, oid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}

	for _, img := range post.Images {
		if err := minio.DeleteFile(ctx, img.StorageID); err != nil {
			log.WarnContext(ctx, "failed to delete post image", "storage_id", img.StorageID, "err", err)
		}
	}

	return nil
}

// authorOf 查询作者展示信息，失败返回 nil，由转换层回退默认值
func (s *postServiceImpl) authorOf(ctx context.Context, userID uint64) *model.User {
	return lookupUsersByIds(ctx, s.userRepo, []uint64{userID})[userID]
}

// toPostDTO 将 Model 转换为返回给前端的 DTO
func (s *postServiceImpl) toPostDTO(post *model.Post, viewerID uint64, author *model.User) (*dto.PostDTO, error) {
	out := &dto.PostDTO{}
	if err := copier.Copy(out, post); err != nil {
		return nil, err
	}
	out.ID = post.ID.Hex()
	out.Category = string(post.Category)
	out.CreatedAt = post.CreatedAt.Format(timeLayout)
	out.UpdatedAt = post.UpdatedAt.Format(timeLayout)
	if author != nil {
		out.Username = author.Username
		out.AvatarURL = author.AvatarURL
	}
	if viewerID != 0 {
		out.Liked = post.IsLikedBy(viewerID)
		out.Bookmarked = post.IsBookmarkedBy(viewerID)
	}
	return out, nil
}
