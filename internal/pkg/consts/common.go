package consts

const (
	MimePrefixImage = "image"
)

const (
	// TokenBlacklistPrefix 已注销 Token 签名在 Redis 中的键前缀
	TokenBlacklistPrefix = "auth:blacklist:"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	PostImageFolder   = "blog/posts/"
	EditorImageFolder = "blog/editor-images/"
	AvatarFolder      = "profile/"
)
