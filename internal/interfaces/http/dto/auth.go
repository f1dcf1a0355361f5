package dto

import (
	"quilkalam-api/internal/application/account"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,min=10"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ToAuthResponse 转换认证结果
func ToAuthResponse(r *account.AuthResult) *AuthResponse {
	if r == nil {
		return nil
	}
	return &AuthResponse{Token: r.Token, User: ToUserResponse(r.User)}
}
