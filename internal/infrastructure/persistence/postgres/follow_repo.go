package postgres

import (
	"context"
	"fmt"

	"quilkalam-api/internal/domain/entity"
)

const followUserColumns = "u.id, " +
	"COALESCE(u.display_name, '') AS display_name, " +
	"COALESCE(u.profile_image_url, '') AS profile_image_url, " +
	"COALESCE(u.bio, '') AS bio, " +
	"f.created_at AS followed_at"

// FollowRepository 关注仓储实现
type FollowRepository struct {
	client *Client
}

// NewFollowRepository 创建关注仓储
func NewFollowRepository(client *Client) *FollowRepository {
	return &FollowRepository{client: client}
}

// Exists 检查关注关系
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.FollowRepository.Exists")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	err := db.Model(&entity.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return count > 0, nil
}

// Create 创建关注关系
func (r *FollowRepository) Create(ctx context.Context, follow *entity.Follow) error {
	ctx, span := tracer.Start(ctx, "postgres.FollowRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Omit("Follower", "Following").Create(follow).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create follow: %w", translateError(err))
	}
	return nil
}

// Delete 删除关注关系
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.FollowRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&entity.Follow{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListFollowers 列出关注该用户的人
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]*entity.FollowUser, error) {
	ctx, span := tracer.Start(ctx, "postgres.FollowRepository.ListFollowers")
	defer span.End()

	users, err := r.list(ctx, "f.follower_id", "f.following_id", userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// ListFollowing 列出该用户关注的人
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]*entity.FollowUser, error) {
	ctx, span := tracer.Start(ctx, "postgres.FollowRepository.ListFollowing")
	defer span.End()

	users, err := r.list(ctx, "f.following_id", "f.follower_id", userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

// list joinCol 关联到用户表的一侧，whereCol 过滤的一侧
func (r *FollowRepository) list(ctx context.Context, joinCol, whereCol, userID string) ([]*entity.FollowUser, error) {
	db := getDB(ctx, r.client.db)
	users := make([]*entity.FollowUser, 0)
	err := db.Table("follows AS f").
		Select(followUserColumns).
		Joins("JOIN users u ON u.id = "+joinCol).
		Where(whereCol+" = ?", userID).
		Order("f.created_at DESC").
		Scan(&users).Error
	return users, err
}
