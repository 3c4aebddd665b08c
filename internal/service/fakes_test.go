package service

import (
	"Inkstone/internal/model"
	"Inkstone/internal/repository"
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostRepo 内存实现，行为与存储层约定保持一致：
// 计数与集合在同一次调用内维护，slug 冲突返回 ErrDuplicateSlug
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[primitive.ObjectID]*model.Post),
	}
}

var _ repository.PostRepo = (*fakePostRepo)(nil)

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return repository.ErrDuplicateSlug
		}
	}

	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) GetPostById(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (f *fakePostRepo) GetPostBySlug(_ context.Context, slug string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, post := range f.posts {
		if post.Slug == slug {
			cp := *post
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, post := range f.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, category, search string, limit, offset int64) ([]*model.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*model.Post
	for _, post := range f.posts {
		if category != "" && string(post.Category) != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(post.Title), strings.ToLower(search)) {
			continue
		}
		cp := *post
		matched = append(matched, &cp)
	}

	// 最新在前
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].CreatedAt.After(matched[i].CreatedAt) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}

	total := int64(len(matched))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakePostRepo) GetPostsByUserId(_ context.Context, userID uint64) ([]*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Post
	for _, post := range f.posts {
		if post.UserID == userID {
			cp := *post
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts[id]; !ok {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func (f *fakePostRepo) ToggleLike(_ context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	post.LikedUsers = toggleUint64(post.LikedUsers, userID)
	post.LikesCount = int64(len(post.LikedUsers))
	post.UpdatedAt = time.Now()

	cp := *post
	return &cp, nil
}

func (f *fakePostRepo) ToggleBookmark(_ context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	post.BookmarkedUsers = toggleUint64(post.BookmarkedUsers, userID)
	post.UpdatedAt = time.Now()

	cp := *post
	return &cp, nil
}

func toggleUint64(members []uint64, userID uint64) []uint64 {
	for i, id := range members {
		if id == userID {
			return append(members[:i], members[i+1:]...)
		}
	}
	return append(members, userID)
}

func (f *fakePostRepo) AddComment(_ context.Context, postID primitive.ObjectID, comment *model.Comment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return false, nil
	}
	post.Comments = append(post.Comments, *comment)
	post.CommentsCount++
	post.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakePostRepo) UpdateCommentText(_ context.Context, postID, commentID primitive.ObjectID, userID uint64, text string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return false, nil
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID && post.Comments[i].UserID == userID {
			post.Comments[i].Text = text
			post.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return false, nil
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID && post.Comments[i].UserID == userID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			post.CommentsCount--
			post.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostRepo) FindDriftedPostIds(_ context.Context) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []primitive.ObjectID
	for id, post := range f.posts {
		if post.LikesCount != int64(len(post.LikedUsers)) ||
			post.CommentsCount != int64(len(post.Comments)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePostRepo) RepairCounts(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[id]
	if !ok {
		return nil
	}
	post.LikesCount = int64(len(post.LikedUsers))
	post.CommentsCount = int64(len(post.Comments))
	return nil
}

// fakeUserRepo 内存用户库
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		users:  make(map[uint64]*model.User),
	}
}

var _ repository.UserRepo = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			cp := *user
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username || user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id uint64, avatarURL, avatarKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok {
		user.AvatarURL = avatarURL
		user.AvatarKey = avatarKey
	}
	return nil
}
