package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug slug 唯一索引冲突，由服务层决定是否换后缀重试
var ErrDuplicateSlug = errors.New("slug already exists")

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostById(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListPosts(ctx context.Context, category, search string, limit, offset int64) ([]*model.Post, int64, error)
	GetPostsByUserId(ctx context.Context, userID uint64) ([]*model.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (bool, error)

	ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error)
	ToggleBookmark(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error)

	AddComment(ctx context.Context, postID primitive.ObjectID, comment *model.Comment) (bool, error)
	UpdateCommentText(ctx context.Context, postID, commentID primitive.ObjectID, userID uint64, text string) (bool, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID, userID uint64) (bool, error)

	FindDriftedPostIds(ctx context.Context) ([]primitive.ObjectID, error)
	RepairCounts(ctx context.Context, id primitive.ObjectID) error
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		col: db.Collection("posts"),
	}
}

// CreatePost 写入帖子，slug 撞唯一索引时返回 ErrDuplicateSlug
func (s *postRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return nil
}

func (s *postRepoImpl) GetPostById(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPosts 按条件分页查询，摘要投影，最新在前。
// 偏移量分页在并发写入下没有快照保证，页边界可能漂移
func (s *postRepoImpl) ListPosts(ctx context.Context, category, search string, limit, offset int64) ([]*model.Post, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if search != "" {
		// 标题子串匹配，大小写不敏感，不做分词检索
		filter["title"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(search),
			Options: "i",
		}}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit).
		SetProjection(bson.M{
			"user_id":        1,
			"title":          1,
			"subtitle":       1,
			"slug":           1,
			"images":         1,
			"category":       1,
			"likes_count":    1,
			"comments_count": 1,
			"created_at":     1,
		})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (s *postRepoImpl) GetPostsByUserId(ctx context.Context, userID uint64) ([]*model.Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *postRepoImpl) DeletePost(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// toggleMember 集合成员翻转：在场则移除，缺席则加入。
// 使用管道式更新让翻转与计数回写落在同一次原子写入里，
// 避免两个并发切换者互相覆盖对方读到的旧集合
func (s *postRepoImpl) toggleMember(ctx context.Context, id primitive.ObjectID, userID uint64, field string, countField string) (*model.Post, error) {
	members := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			field: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, members}},
				bson.M{"$setDifference": bson.A{members, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{members, bson.A{userID}}},
			}},
			"updated_at": time.Now(),
		}},
	}
	if countField != "" {
		// 计数取翻转后的集合基数，保证与集合永不漂移
		pipeline = append(pipeline, bson.M{"$set": bson.M{
			countField: bson.M{"$size": "$" + field},
		}})
	}

	var post model.Post
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	return s.toggleMember(ctx, id, userID, "liked_users", "likes_count")
}

func (s *postRepoImpl) ToggleBookmark(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	return s.toggleMember(ctx, id, userID, "bookmarked_users", "")
}

// AddComment 追加评论并在同一次写入中递增计数
func (s *postRepoImpl) AddComment(ctx context.Context, postID primitive.ObjectID, comment *model.Comment) (bool, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$inc":  bson.M{"comments_count": 1},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateCommentText 只允许作者改动，且只改 text。
// 过滤条件带上 user_id，作者校验和写入是同一次原子操作
func (s *postRepoImpl) UpdateCommentText(ctx context.Context, postID, commentID primitive.ObjectID, userID uint64, text string) (bool, error) {
	filter := bson.M{
		"_id": postID,
		"comments": bson.M{"$elemMatch": bson.M{
			"_id":     commentID,
			"user_id": userID,
		}},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"comments.$.text": text,
			"updated_at":      time.Now(),
		},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// RemoveComment 摘除评论并在同一次写入中递减计数
func (s *postRepoImpl) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID, userID uint64) (bool, error) {
	filter := bson.M{
		"_id": postID,
		"comments": bson.M{"$elemMatch": bson.M{
			"_id":     commentID,
			"user_id": userID,
		}},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$inc":  bson.M{"comments_count": -1},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FindDriftedPostIds 找出冗余计数与集合基数不一致的帖子
func (s *postRepoImpl) FindDriftedPostIds(ctx context.Context) ([]primitive.ObjectID, error) {
	filter := bson.M{"$expr": bson.M{"$or": bson.A{
		bson.M{"$ne": bson.A{
			"$likes_count",
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$liked_users", bson.A{}}}},
		}},
		bson.M{"$ne": bson.A{
			"$comments_count",
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
		}},
	}}}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// RepairCounts 将冗余计数重置为集合基数
func (s *postRepoImpl) RepairCounts(ctx context.Context, id primitive.ObjectID) error {
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"likes_count":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$liked_users", bson.A{}}}},
			"comments_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
		}},
	}
	_, err := s.col.UpdateByID(ctx, id, pipeline)
	return err
}
