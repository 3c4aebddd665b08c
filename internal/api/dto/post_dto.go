package dto

import (
	"Inkstone/internal/model"

	"github.com/goccy/go-json"
)

// PostBaseDTO 帖子 - 新增。
// Blocks 与 ProductLinks 保留原始 JSON：客户端可能提交结构化数组，
// 也可能因 multipart 传输把数组编码成字符串，由服务层统一解码
type PostBaseDTO struct {
	Title        string          `json:"title" binding:"required" validate:"min=1,max=200"`
	Subtitle     string          `json:"subtitle" validate:"max=300"`
	Blocks       json.RawMessage `json:"blocks"`
	ProductLinks json.RawMessage `json:"productLinks"`
	Category     string          `json:"category"`
}

// ContentBlockDTO 内容块
type ContentBlockDTO struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// ProductLinkDTO 商品链接
type ProductLinkDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ImageRefDTO 存储对象引用
type ImageRefDTO struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}

// PostDTO 帖子详情。作者展示信息从用户库实时补全；
// Liked / Bookmarked 反映当前登录查看者的状态，匿名时恒为 false
type PostDTO struct {
	ID            string               `json:"id"`
	UserID        uint64               `json:"user_id"`
	Username      string               `json:"username"`
	AvatarURL     string               `json:"avatar_url"`
	Title         string               `json:"title"`
	Subtitle      string               `json:"subtitle,omitempty"`
	Slug          string               `json:"slug"`
	Blocks        []model.ContentBlock `json:"blocks"`
	Images        []ImageRefDTO        `json:"images"`
	ProductLinks  []model.ProductLink  `json:"product_links"`
	LikesCount    int64                `json:"likes_count"`
	CommentsCount int64                `json:"comments_count"`
	Liked         bool                 `json:"liked"`
	Bookmarked    bool                 `json:"bookmarked"`
	Category      string               `json:"category"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
}

// PostSummaryDTO 列表页的帖子摘要投影
type PostSummaryDTO struct {
	ID            string        `json:"id"`
	UserID        uint64        `json:"user_id"`
	Username      string        `json:"username"`
	AvatarURL     string        `json:"avatar_url"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Slug          string        `json:"slug"`
	Images        []ImageRefDTO `json:"images"`
	Category      string        `json:"category"`
	LikesCount    int64         `json:"likes_count"`
	CommentsCount int64         `json:"comments_count"`
	CreatedAt     string        `json:"created_at"`
}

// PostListDTO 分页列表
type PostListDTO struct {
	Posts []*PostSummaryDTO `json:"posts"`
	Total int64             `json:"total"`
}

// PostQueryDTO 列表查询参数
type PostQueryDTO struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=10" binding:"min=1,max=100"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

// LikeResultDTO 点赞切换结果
type LikeResultDTO struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// BookmarkResultDTO 收藏切换结果
type BookmarkResultDTO struct {
	Bookmarked bool `json:"bookmarked"`
}

// UploadImageResultDTO 编辑器图片上传结果
type UploadImageResultDTO struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}
