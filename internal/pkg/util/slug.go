package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将标题归一化为小写、连字符分隔的 URL 安全形式
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugSeparator.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "post"
	}
	return s
}

// TimestampSlug 追加毫秒时间戳后缀，用于降低同名标题的撞车概率。
// 真正的唯一性由 posts 集合的 slug 唯一索引兜底
func TimestampSlug(slug string) string {
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
