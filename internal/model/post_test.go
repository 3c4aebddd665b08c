package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryTech, ParseCategory("tech"))
	assert.Equal(t, CategoryFood, ParseCategory("food"))

	// 未识别与空值统一落到 other
	assert.Equal(t, CategoryOther, ParseCategory(""))
	assert.Equal(t, CategoryOther, ParseCategory("gaming"))
	assert.Equal(t, CategoryOther, ParseCategory("TECH"))
}

func TestBlockTypeValid(t *testing.T) {
	assert.True(t, BlockParagraph.Valid())
	assert.True(t, BlockHeader.Valid())
	assert.True(t, BlockImage.Valid())

	assert.False(t, BlockType("video").Valid())
	assert.False(t, BlockType("").Valid())
}

func TestPostMembership(t *testing.T) {
	post := &Post{
		LikedUsers:      []uint64{1, 2},
		BookmarkedUsers: []uint64{2},
	}

	assert.True(t, post.IsLikedBy(1))
	assert.False(t, post.IsLikedBy(3))
	assert.True(t, post.IsBookmarkedBy(2))
	assert.False(t, post.IsBookmarkedBy(1))
}
