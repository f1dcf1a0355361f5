package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quilkalam-api/internal/domain/entity"
)

// ItemRepository 章节仓储实现
type ItemRepository struct {
	client *Client
}

// NewItemRepository 创建章节仓储
func NewItemRepository(client *Client) *ItemRepository {
	return &ItemRepository{client: client}
}

// Create 创建章节
func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	ctx, span := tracer.Start(ctx, "postgres.ItemRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Omit("Project", "Parent").Create(item).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create item: %w", translateError(err))
	}
	return nil
}

// GetByID 获取作品内的章节
func (r *ItemRepository) GetByID(ctx context.Context, projectID, itemID string) (*entity.Item, error) {
	ctx, span := tracer.Start(ctx, "postgres.ItemRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var item entity.Item
	if err := db.First(&item, "id = ? AND project_id = ?", itemID, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// ListByProject 列出作品全部章节
func (r *ItemRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Item, error) {
	ctx, span := tracer.Start(ctx, "postgres.ItemRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	items := make([]*entity.Item, 0)
	err := db.Where("project_id = ?", projectID).
		Order("order_index ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// UpdateFields 按列更新章节，列集合由调用方构造
func (r *ItemRepository) UpdateFields(ctx context.Context, projectID, itemID string, fields map[string]any) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ItemRepository.UpdateFields")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Table(entity.Item{}.TableName()).
		Where("id = ? AND project_id = ?", itemID, projectID).
		Updates(fields)
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to update item: %w", translateError(result.Error))
	}
	return result.RowsAffected, nil
}

// Delete 删除章节，子节点由外键级联删除
func (r *ItemRepository) Delete(ctx context.Context, projectID, itemID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ItemRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("id = ? AND project_id = ?", itemID, projectID).Delete(&entity.Item{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to delete item: %w", result.Error)
	}
	return result.RowsAffected, nil
}
