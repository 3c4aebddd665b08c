package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserExist         = errors.New("用户名或邮箱已注册")
	ErrPasswordIncorrect = errors.New("邮箱或密码错误")
	ErrPostNotFound      = errors.New("帖子不存在")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentEmpty      = errors.New("评论内容不能为空")
	ErrBlockInvalid      = errors.New("内容块不合法")
	ErrFileNotSupported  = errors.New("不支持的文件类型")
	ErrStorage           = errors.New("对象存储服务异常")
	UnauthorizedError    = errors.New("权限不足")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrUserNotFound:      NotFound,
	ErrUserExist:         BadRequest,
	ErrPasswordIncorrect: Unauthorized,
	ErrPostNotFound:      NotFound,
	ErrCommentNotFound:   NotFound,
	ErrCommentEmpty:      BadRequest,
	ErrBlockInvalid:      BadRequest,
	ErrFileNotSupported:  BadRequest,
	ErrStorage:           InternalServerError,
	UnauthorizedError:    Forbidden,
	UnExpectedError:      InternalServerError,
}
