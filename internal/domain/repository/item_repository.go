// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"quilkalam-api/internal/domain/entity"
)

// ItemRepository 章节仓储接口，所有查询均限定在作品范围内
type ItemRepository interface {
	// Create 创建章节
	Create(ctx context.Context, item *entity.Item) error

	// GetByID 获取作品内的章节，不存在返回 nil
	GetByID(ctx context.Context, projectID, itemID string) (*entity.Item, error)

	// ListByProject 按 order_index、created_at 升序列出章节
	ListByProject(ctx context.Context, projectID string) ([]*entity.Item, error)

	// UpdateFields 按列更新章节，返回受影响行数
	UpdateFields(ctx context.Context, projectID, itemID string, fields map[string]any) (int64, error)

	// Delete 删除章节及其子树，返回受影响行数
	Delete(ctx context.Context, projectID, itemID string) (int64, error)
}
