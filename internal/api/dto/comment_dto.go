package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// CommentEditDTO 修改评论请求
type CommentEditDTO struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// CommentDTO 评论
type CommentDTO struct {
	ID        string `json:"id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// CommentViewDTO 评论展示视图，作者信息从用户库实时补全，
// 查不到时回退评论创建时落库的用户名
type CommentViewDTO struct {
	ID        string `json:"id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}
