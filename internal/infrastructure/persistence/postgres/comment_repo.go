package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quilkalam-api/internal/domain/entity"
)

// CommentRepository 评论仓储实现
type CommentRepository struct {
	client *Client
}

// NewCommentRepository 创建评论仓储
func NewCommentRepository(client *Client) *CommentRepository {
	return &CommentRepository{client: client}
}

// Create 创建评论
func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	ctx, span := tracer.Start(ctx, "postgres.CommentRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Omit("Project", "User", "Parent").Create(comment).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create comment: %w", translateError(err))
	}
	return nil
}

// GetByID 获取评论
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	ctx, span := tracer.Start(ctx, "postgres.CommentRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var comment entity.Comment
	if err := db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByProject 按创建时间倒序列出评论
func (r *CommentRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.CommentView, error) {
	ctx, span := tracer.Start(ctx, "postgres.CommentRepository.ListByProject")
	defer span.End()

	db := getDB(ctx, r.client.db)
	comments := make([]*entity.CommentView, 0)
	err := db.Table("comments AS c").
		Select("c.*, COALESCE(u.display_name, '') AS display_name, COALESCE(u.profile_image_url, '') AS profile_image_url").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("c.project_id = ?", projectID).
		Order("c.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CountThread 递归统计评论子树大小，包含根评论
func (r *CommentRepository) CountThread(ctx context.Context, id string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.CommentRepository.CountThread")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	err := db.Raw(`WITH RECURSIVE thread(id) AS (
		SELECT id FROM comments WHERE id = ?
		UNION ALL
		SELECT c.id FROM comments c JOIN thread t ON c.parent_comment_id = t.id
	) SELECT COUNT(*) FROM thread`, id).Scan(&count).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count comment thread: %w", err)
	}
	return count, nil
}

// Delete 删除评论
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CommentRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
