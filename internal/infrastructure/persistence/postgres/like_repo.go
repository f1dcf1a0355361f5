package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quilkalam-api/internal/domain/entity"
)

// LikeRepository 点赞仓储实现
type LikeRepository struct {
	client *Client
}

// NewLikeRepository 创建点赞仓储
func NewLikeRepository(client *Client) *LikeRepository {
	return &LikeRepository{client: client}
}

// Get 获取点赞记录
func (r *LikeRepository) Get(ctx context.Context, projectID, userID string) (*entity.Like, error) {
	ctx, span := tracer.Start(ctx, "postgres.LikeRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var like entity.Like
	if err := db.First(&like, "project_id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

// Create 创建点赞记录
func (r *LikeRepository) Create(ctx context.Context, like *entity.Like) error {
	ctx, span := tracer.Start(ctx, "postgres.LikeRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Omit("Project", "User").Create(like).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create like: %w", translateError(err))
	}
	return nil
}

// Delete 删除点赞记录
func (r *LikeRepository) Delete(ctx context.Context, projectID, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LikeRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&entity.Like{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected, nil
}
