// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户实体
type User struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	PhoneNumber     string    `json:"phone_number" gorm:"type:text;not null;uniqueIndex:idx_users_phone_number"`
	PasswordHash    string    `json:"-" gorm:"type:text;not null"` // 不在 JSON 中暴露
	DisplayName     string    `json:"display_name" gorm:"type:text"`
	Email           string    `json:"email" gorm:"type:text"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"type:text"`
	Bio             string    `json:"bio" gorm:"type:text"`
	IsVerified      bool      `json:"is_verified" gorm:"not null;default:false"`
	IsActive        bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成主键
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return nil
}

// NewUser 创建新用户
func NewUser(phoneNumber, displayName string) *User {
	now := time.Now()
	return &User{
		PhoneNumber: phoneNumber,
		DisplayName: displayName,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// UserSummary 用户公开信息快照
type UserSummary struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
	Bio             string `json:"bio"`
}

// FollowUser 关注列表条目
type FollowUser struct {
	UserSummary
	FollowedAt time.Time `json:"followed_at"`
}
