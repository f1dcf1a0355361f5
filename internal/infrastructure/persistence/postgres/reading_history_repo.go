package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quilkalam-api/internal/domain/entity"
)

// ReadingHistoryRepository 阅读记录仓储实现
type ReadingHistoryRepository struct {
	client *Client
}

// NewReadingHistoryRepository 创建阅读记录仓储
func NewReadingHistoryRepository(client *Client) *ReadingHistoryRepository {
	return &ReadingHistoryRepository{client: client}
}

// Upsert 按 (user_id, project_id) 插入或更新进度
func (r *ReadingHistoryRepository) Upsert(ctx context.Context, history *entity.ReadingHistory) error {
	ctx, span := tracer.Start(ctx, "postgres.ReadingHistoryRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Omit("User", "Project", "LastReadItem").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"last_read_item_id", "progress_percentage", "last_read_at",
			}),
		}).
		Create(history).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert reading history: %w", translateError(err))
	}
	return nil
}

// Get 获取阅读进度
func (r *ReadingHistoryRepository) Get(ctx context.Context, userID, projectID string) (*entity.ReadingHistory, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReadingHistoryRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var history entity.ReadingHistory
	if err := db.First(&history, "user_id = ? AND project_id = ?", userID, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get reading history: %w", err)
	}
	return &history, nil
}

// ListByUser 按最近阅读时间倒序列出阅读记录
func (r *ReadingHistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ReadingHistoryView, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReadingHistoryRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	views := make([]*entity.ReadingHistoryView, 0)
	err := db.Table("reading_history AS rh").
		Select("rh.*, " +
			"COALESCE(p.title, '') AS title, " +
			"COALESCE(p.cover_image_url, '') AS cover_image_url, " +
			"COALESCE(p.back_image_url, '') AS back_image_url, " +
			"COALESCE(p.type, '') AS type, " +
			"COALESCE(p.author_name, '') AS author_name").
		Joins("LEFT JOIN published_projects p ON p.id = rh.project_id").
		Where("rh.user_id = ?", userID).
		Order("rh.last_read_at DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list reading history: %w", err)
	}
	return views, nil
}
