package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation collapses", "Hello,   World!!!", "hello-world"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"only symbols falls back", "!!!???", "post"},
		{"empty falls back", "", "post"},
		{"non ascii stripped", "日本語 タイトル", "post"},
		{"mixed ascii survives", "Go 言語 rocks", "go-rocks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestTimestampSlug(t *testing.T) {
	got := TimestampSlug("hello-world")
	assert.True(t, strings.HasPrefix(got, "hello-world-"))

	suffix := strings.TrimPrefix(got, "hello-world-")
	assert.NotEmpty(t, suffix)
	for _, r := range suffix {
		assert.True(t, r >= '0' && r <= '9')
	}
}
