package service

import (
	"context"
	"strings"
)

// BlobRef 已存储对象的引用
type BlobRef struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// BlobStore 图片等二进制对象存储
type BlobStore interface {
	// Put 存储 data URL 编码的图片并返回公开地址
	Put(ctx context.Context, dataURL, namespace string) (*BlobRef, error)
}

// IsInlineImage 判断值是否为内联 data URL
func IsInlineImage(value string) bool {
	return strings.HasPrefix(value, "data:")
}
