package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 帖子分类，封闭枚举，未识别的输入一律落到 CategoryOther
type Category string

const (
	CategoryTech      Category = "tech"
	CategoryFashion   Category = "fashion"
	CategoryFood      Category = "food"
	CategoryLifestyle Category = "lifestyle"
	CategoryBeauty    Category = "beauty"
	CategoryTravel    Category = "travel"
	CategoryOther     Category = "other"
)

// ParseCategory 解析分类，空值或未识别的值返回 CategoryOther
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryTech, CategoryFashion, CategoryFood,
		CategoryLifestyle, CategoryBeauty, CategoryTravel, CategoryOther:
		return Category(s)
	default:
		return CategoryOther
	}
}

// BlockType 内容块类型，封闭枚举
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeader    BlockType = "header"
	BlockImage     BlockType = "image"
)

// Valid 未知类型直接拒绝，不做静默丢弃
func (t BlockType) Valid() bool {
	switch t {
	case BlockParagraph, BlockHeader, BlockImage:
		return true
	default:
		return false
	}
}

// ContentBlock 编辑器内容块。Data 的内部结构按 Type 区分，
// 深层字段不做强校验，保持前端编辑器的松散 schema
type ContentBlock struct {
	ID   string         `bson:"id" json:"id"`
	Type BlockType      `bson:"type" json:"type"`
	Data map[string]any `bson:"data" json:"data"`
}

// ImageRef 帖子占有的存储对象，用于删帖时的级联清理，
// 可能多于 blocks 中实际引用的图片
type ImageRef struct {
	URL       string `bson:"url" json:"url"`
	StorageID string `bson:"storage_id" json:"storage_id"`
}

// ProductLink 商品链接
type ProductLink struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// Comment 帖子内嵌评论，没有独立于帖子的生命周期
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    uint64             `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Post 帖子聚合根。likes_count / comments_count 为冗余计数，
// 所有变更路径必须与集合本身在同一次写入中维护
type Post struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          uint64             `bson:"user_id" json:"user_id"`
	Title           string             `bson:"title" json:"title"`
	Subtitle        string             `bson:"subtitle,omitempty" json:"subtitle"`
	Slug            string             `bson:"slug" json:"slug"`
	Blocks          []ContentBlock     `bson:"blocks" json:"blocks"`
	Images          []ImageRef         `bson:"images" json:"images"`
	ProductLinks    []ProductLink      `bson:"product_links" json:"product_links"`
	LikesCount      int64              `bson:"likes_count" json:"likes_count"`
	LikedUsers      []uint64           `bson:"liked_users" json:"liked_users"`
	BookmarkedUsers []uint64           `bson:"bookmarked_users" json:"bookmarked_users"`
	Comments        []Comment          `bson:"comments" json:"comments"`
	CommentsCount   int64              `bson:"comments_count" json:"comments_count"`
	Category        Category           `bson:"category" json:"category"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsLikedBy 判断用户是否已点赞
func (p *Post) IsLikedBy(userID uint64) bool {
	for _, id := range p.LikedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// IsBookmarkedBy 判断用户是否已收藏
func (p *Post) IsBookmarkedBy(userID uint64) bool {
	for _, id := range p.BookmarkedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
