// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"quilkalam-api/internal/domain/entity"
)

// ProjectFilter 公开作品列表过滤条件
type ProjectFilter struct {
	Type   entity.ProjectType
	Genre  string
	UserID string
	// Search 标题或简介包含的关键字（不区分大小写）
	Search string
}

// ProjectCounter 作品计数列
type ProjectCounter string

const (
	CounterViews    ProjectCounter = "view_count"
	CounterLikes    ProjectCounter = "like_count"
	CounterComments ProjectCounter = "comment_count"
)

// ProjectRepository 作品仓储接口
type ProjectRepository interface {
	// Create 创建作品
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取作品，不存在返回 nil
	GetByID(ctx context.Context, id string) (*entity.Project, error)

	// GetView 获取作品及作者快照，不存在返回 nil，可见性由调用方判断
	GetView(ctx context.Context, id string) (*entity.ProjectView, error)

	// List 分页列出公开且已发布的作品
	List(ctx context.Context, filter *ProjectFilter, pagination Pagination) (*PagedResult[*entity.ProjectView], error)

	// UpdateFields 按列更新作品
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// Delete 删除作品，级联删除章节、点赞、评论和阅读记录
	Delete(ctx context.Context, id string) error

	// LockForUpdate 在当前事务内锁定作品行，不存在时返回 false
	LockForUpdate(ctx context.Context, id string) (bool, error)

	// AdjustCounter 原子调整计数，减少时不低于 0
	AdjustCounter(ctx context.Context, id string, counter ProjectCounter, delta int) error

	// RecomputeWordCount 以章节字数之和重算作品字数
	RecomputeWordCount(ctx context.Context, id string) (int64, error)
}
