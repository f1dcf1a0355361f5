package dto

import (
	"time"

	"quilkalam-api/internal/application/account"
	"quilkalam-api/internal/domain/entity"
)

// UserResponse 用户响应，不包含密码散列
type UserResponse struct {
	ID              string    `json:"id"`
	PhoneNumber     string    `json:"phone_number"`
	DisplayName     string    `json:"display_name"`
	Email           string    `json:"email,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	DisplayName  *string `json:"displayName" binding:"omitempty,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Bio          *string `json:"bio" binding:"omitempty,max=2000"`
	ProfileImage *string `json:"profileImage"`
}

// ToPatch 转换为资料补丁
func (r *UpdateProfileRequest) ToPatch() account.ProfilePatch {
	return account.ProfilePatch{
		DisplayName:  r.DisplayName,
		Email:        r.Email,
		Bio:          r.Bio,
		ProfileImage: r.ProfileImage,
	}
}

// ToUserResponse 实体转换为响应
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:              u.ID,
		PhoneNumber:     u.PhoneNumber,
		DisplayName:     u.DisplayName,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Bio:             u.Bio,
		IsVerified:      u.IsVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// UploadImageRequest 图片上传请求
type UploadImageRequest struct {
	Image  string `json:"image" binding:"required"`
	Folder string `json:"folder" binding:"omitempty,max=63"`
}
