// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"quilkalam-api/internal/domain/entity"
)

// LikeRepository 点赞仓储接口
type LikeRepository interface {
	// Get 获取点赞记录，不存在返回 nil
	Get(ctx context.Context, projectID, userID string) (*entity.Like, error)

	// Create 创建点赞记录
	Create(ctx context.Context, like *entity.Like) error

	// Delete 删除点赞记录，返回受影响行数
	Delete(ctx context.Context, projectID, userID string) (int64, error)
}

// FollowRepository 关注仓储接口
type FollowRepository interface {
	// Exists 检查关注关系
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	// Create 创建关注关系
	Create(ctx context.Context, follow *entity.Follow) error

	// Delete 删除关注关系，返回受影响行数
	Delete(ctx context.Context, followerID, followingID string) (int64, error)

	// ListFollowers 列出关注该用户的人，按关注时间倒序
	ListFollowers(ctx context.Context, userID string) ([]*entity.FollowUser, error)

	// ListFollowing 列出该用户关注的人，按关注时间倒序
	ListFollowing(ctx context.Context, userID string) ([]*entity.FollowUser, error)
}

// CommentRepository 评论仓储接口
type CommentRepository interface {
	// Create 创建评论
	Create(ctx context.Context, comment *entity.Comment) error

	// GetByID 获取评论，不存在返回 nil
	GetByID(ctx context.Context, id string) (*entity.Comment, error)

	// ListByProject 按创建时间倒序列出评论及作者信息
	ListByProject(ctx context.Context, projectID string) ([]*entity.CommentView, error)

	// CountThread 统计以 id 为根的评论及其全部下级回复数
	CountThread(ctx context.Context, id string) (int64, error)

	// Delete 删除评论，回复随之级联删除
	Delete(ctx context.Context, id string) error
}

// ReadingHistoryRepository 阅读记录仓储接口
type ReadingHistoryRepository interface {
	// Upsert 按 (user_id, project_id) 插入或更新
	Upsert(ctx context.Context, history *entity.ReadingHistory) error

	// Get 获取阅读进度，不存在返回 nil
	Get(ctx context.Context, userID, projectID string) (*entity.ReadingHistory, error)

	// ListByUser 按最近阅读时间倒序列出阅读记录
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ReadingHistoryView, error)
}
