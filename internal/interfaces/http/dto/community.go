package dto

import (
	"quilkalam-api/internal/domain/entity"
)

// ToggleLikeRequest 点赞请求
type ToggleLikeRequest struct {
	ProjectID string `json:"projectId" binding:"required,uuid"`
}

// LikeResponse 点赞状态响应
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// ToggleFollowRequest 关注请求
type ToggleFollowRequest struct {
	FollowingID string `json:"followingId" binding:"required,uuid"`
}

// FollowResponse 关注状态响应
type FollowResponse struct {
	Following bool `json:"following"`
}

// FollowListResponse 关注列表响应
type FollowListResponse struct {
	Users []*entity.FollowUser `json:"users"`
}

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	ProjectID       string  `json:"projectId" binding:"required,uuid"`
	Content         string  `json:"content" binding:"required,max=5000"`
	ParentCommentID *string `json:"parentCommentId" binding:"omitempty,uuid"`
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Comments []*entity.CommentView `json:"comments"`
}

// ProgressRequest 阅读进度请求
type ProgressRequest struct {
	ProjectID          string   `json:"projectId" binding:"required,uuid"`
	LastReadItemID     *string  `json:"lastReadItemId" binding:"omitempty,uuid"`
	ProgressPercentage *float64 `json:"progressPercentage" binding:"required,gte=0,lte=100"`
}

// ProgressResponse 单个作品阅读进度
type ProgressResponse struct {
	Progress *entity.ReadingHistory `json:"progress"`
}

// HistoryResponse 阅读记录
type HistoryResponse struct {
	History []*entity.ReadingHistoryView `json:"history"`
}
