package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"

	"github.com/goccy/go-json"
)

// UnnamedProduct 商品名缺失时的占位值。
// 这里是刻意的宽松归一化，不因可选字段缺失拒掉整个帖子
const UnnamedProduct = "Unnamed product"

// decodeFlexible 解码可能被二次编码的 JSON。
// multipart 表单无法承载结构化数组，客户端会把数组编码成字符串提交
func decodeFlexible(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return json.Unmarshal([]byte(text), out)
}

// NormalizeBlocks 校验并归一化内容块列表。
// 任何一块不合法都整体拒绝，不做静默丢弃
func NormalizeBlocks(raw json.RawMessage) ([]model.ContentBlock, error) {
	var in []dto.ContentBlockDTO
	if err := decodeFlexible(raw, &in); err != nil {
		return nil, ErrBlockInvalid
	}

	blocks := make([]model.ContentBlock, 0, len(in))
	for _, b := range in {
		blockType := model.BlockType(b.Type)
		if b.ID == "" || !blockType.Valid() || b.Data == nil {
			return nil, ErrBlockInvalid
		}
		blocks = append(blocks, model.ContentBlock{
			ID:   b.ID,
			Type: blockType,
			Data: b.Data,
		})
	}
	return blocks, nil
}

// NormalizeProductLinks 宽松归一化商品链接，缺省字段补占位值，不去重
func NormalizeProductLinks(raw json.RawMessage) ([]model.ProductLink, error) {
	var in []dto.ProductLinkDTO
	if err := decodeFlexible(raw, &in); err != nil {
		return nil, ErrParamInvalid
	}

	links := make([]model.ProductLink, 0, len(in))
	for _, l := range in {
		name := l.Name
		if name == "" {
			name = UnnamedProduct
		}
		links = append(links, model.ProductLink{
			Name: name,
			URL:  l.URL,
		})
	}
	return links, nil
}
