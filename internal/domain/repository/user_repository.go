// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"quilkalam-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户，不存在返回 nil
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByPhone 根据手机号获取用户，不存在返回 nil
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)

	// ExistsByPhone 检查手机号是否已注册
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	// UpdateFields 按列更新用户
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
