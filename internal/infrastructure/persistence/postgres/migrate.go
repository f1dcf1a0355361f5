package postgres

import (
	"context"
	"fmt"

	"quilkalam-api/internal/domain/entity"
)

// Models 需要迁移的实体，按外键依赖排序
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Project{},
		&entity.Item{},
		&entity.Like{},
		&entity.Follow{},
		&entity.Comment{},
		&entity.ReadingHistory{},
	}
}

// Migrate 创建或更新表结构、索引与外键约束
func (c *Client) Migrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.Migrate")
	defer span.End()

	if err := c.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
