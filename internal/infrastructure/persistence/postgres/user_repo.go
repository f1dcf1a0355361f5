package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quilkalam-api/internal/domain/entity"
)

// UserRepository 用户仓储实现
type UserRepository struct {
	client *Client
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	// Select("*") 保证 is_active=false 等零值按原样写入
	if err := db.Select("*").Create(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByPhone 根据手机号获取用户
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByPhone")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "phone_number = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return &user, nil
}

// ExistsByPhone 检查手机号是否已注册
func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.ExistsByPhone")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.User{}).Where("phone_number = ?", phone).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check phone number: %w", err)
	}
	return count > 0, nil
}

// UpdateFields 按列更新用户
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.UpdateFields")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}
	return nil
}
