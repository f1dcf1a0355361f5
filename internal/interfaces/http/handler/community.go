package handler

import (
	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/application/community"
	"quilkalam-api/internal/interfaces/http/dto"
	apperrors "quilkalam-api/pkg/errors"
)

// CommunityHandler 点赞、关注、评论与阅读进度处理器
type CommunityHandler struct {
	community *community.Service
}

// NewCommunityHandler 创建社区处理器
func NewCommunityHandler(svc *community.Service) *CommunityHandler {
	return &CommunityHandler{community: svc}
}

// ToggleLike 切换点赞
// @Summary 切换点赞
// @Tags Likes
// @Accept json
// @Produce json
// @Param body body dto.ToggleLikeRequest true "作品"
// @Success 200 {object} dto.Response[dto.LikeResponse]
// @Router /v1/likes [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	var req dto.ToggleLikeRequest
	if !bindJSON(c, &req) {
		return
	}

	liked, err := h.community.ToggleLike(c.Request.Context(), caller(c), req.ProjectID)
	if err != nil {
		respondError(c, "failed to toggle like", err)
		return
	}
	dto.Success(c, &dto.LikeResponse{Liked: liked})
}

// GetLikeState 查询点赞状态
// @Summary 查询点赞状态
// @Tags Likes
// @Produce json
// @Param project_id query string true "作品 ID"
// @Success 200 {object} dto.Response[dto.LikeResponse]
// @Router /v1/likes [get]
func (h *CommunityHandler) GetLikeState(c *gin.Context) {
	projectID := dto.QueryAlias(c, "project_id", "projectId")
	if projectID == "" {
		dto.AppError(c, apperrors.Validation("project_id is required"))
		return
	}

	liked, err := h.community.GetLikeState(c.Request.Context(), caller(c), projectID)
	if err != nil {
		respondError(c, "failed to get like state", err)
		return
	}
	dto.Success(c, &dto.LikeResponse{Liked: liked})
}

// ToggleFollow 切换关注
// @Summary 切换关注
// @Tags Follows
// @Accept json
// @Produce json
// @Param body body dto.ToggleFollowRequest true "目标用户"
// @Success 200 {object} dto.Response[dto.FollowResponse]
// @Router /v1/follows [post]
func (h *CommunityHandler) ToggleFollow(c *gin.Context) {
	var req dto.ToggleFollowRequest
	if !bindJSON(c, &req) {
		return
	}

	following, err := h.community.ToggleFollow(c.Request.Context(), caller(c), req.FollowingID)
	if err != nil {
		respondError(c, "failed to toggle follow", err)
		return
	}
	dto.Success(c, &dto.FollowResponse{Following: following})
}

// ListFollows 关注或粉丝列表
// @Summary 关注或粉丝列表
// @Tags Follows
// @Produce json
// @Param type query string true "followers 或 following"
// @Param user_id query string false "用户 ID，默认当前用户"
// @Success 200 {object} dto.Response[dto.FollowListResponse]
// @Router /v1/follows [get]
func (h *CommunityHandler) ListFollows(c *gin.Context) {
	kind := community.FollowKind(c.DefaultQuery("type", string(community.FollowKindFollowing)))
	users, err := h.community.ListFollows(c.Request.Context(), caller(c), dto.QueryAlias(c, "user_id", "userId"), kind)
	if err != nil {
		respondError(c, "failed to list follows", err)
		return
	}
	dto.Success(c, &dto.FollowListResponse{Users: users})
}

// ListComments 评论列表
// @Summary 评论列表
// @Tags Comments
// @Produce json
// @Param project_id query string true "作品 ID"
// @Success 200 {object} dto.Response[dto.CommentListResponse]
// @Router /v1/comments [get]
func (h *CommunityHandler) ListComments(c *gin.Context) {
	projectID := dto.QueryAlias(c, "project_id", "projectId")
	if projectID == "" {
		dto.AppError(c, apperrors.Validation("project_id is required"))
		return
	}

	comments, err := h.community.ListComments(c.Request.Context(), caller(c), projectID)
	if err != nil {
		respondError(c, "failed to list comments", err)
		return
	}
	dto.Success(c, &dto.CommentListResponse{Comments: comments})
}

// CreateComment 发表评论
// @Summary 发表评论
// @Tags Comments
// @Accept json
// @Produce json
// @Param body body dto.CreateCommentRequest true "评论"
// @Success 201 {object} dto.Response[entity.Comment]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/comments [post]
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.community.CreateComment(c.Request.Context(), caller(c), community.CommentInput{
		ProjectID:       req.ProjectID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		respondError(c, "failed to create comment", err)
		return
	}
	dto.Created(c, comment)
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags Comments
// @Param cid path string true "评论 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/comments/{cid} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	if err := h.community.DeleteComment(c.Request.Context(), caller(c), dto.BindCommentID(c)); err != nil {
		respondError(c, "failed to delete comment", err)
		return
	}
	dto.NoContent(c)
}

// GetReadingProgress 阅读进度，带 project_id 时返回单个作品进度，否则返回阅读记录
// @Summary 阅读进度
// @Tags Reading
// @Produce json
// @Param project_id query string false "作品 ID"
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Router /v1/reading-progress [get]
func (h *CommunityHandler) GetReadingProgress(c *gin.Context) {
	ctx := c.Request.Context()
	if projectID := dto.QueryAlias(c, "project_id", "projectId"); projectID != "" {
		progress, err := h.community.GetProgress(ctx, caller(c), projectID)
		if err != nil {
			respondError(c, "failed to get reading progress", err)
			return
		}
		dto.Success(c, &dto.ProgressResponse{Progress: progress})
		return
	}

	history, err := h.community.ListHistory(ctx, caller(c))
	if err != nil {
		respondError(c, "failed to list reading history", err)
		return
	}
	dto.Success(c, &dto.HistoryResponse{History: history})
}

// UpsertReadingProgress 记录阅读进度
// @Summary 记录阅读进度
// @Tags Reading
// @Accept json
// @Produce json
// @Param body body dto.ProgressRequest true "进度"
// @Success 200 {object} dto.Response[dto.ProgressResponse]
// @Router /v1/reading-progress [post]
func (h *CommunityHandler) UpsertReadingProgress(c *gin.Context) {
	var req dto.ProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	progress, err := h.community.UpsertProgress(c.Request.Context(), caller(c), community.ProgressInput{
		ProjectID:          req.ProjectID,
		LastReadItemID:     req.LastReadItemID,
		ProgressPercentage: *req.ProgressPercentage,
	})
	if err != nil {
		respondError(c, "failed to save reading progress", err)
		return
	}
	dto.Success(c, &dto.ProgressResponse{Progress: progress})
}
