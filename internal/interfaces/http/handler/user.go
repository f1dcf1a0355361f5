package handler

import (
	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/application/account"
	"quilkalam-api/internal/interfaces/http/dto"
)

// UserHandler 用户处理器
type UserHandler struct {
	accounts *account.Service
}

// NewUserHandler 创建用户处理器
func NewUserHandler(accounts *account.Service) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.accounts.GetProfile(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, "failed to get user", err)
		return
	}
	dto.Success(c, dto.ToUserResponse(user))
}

// UpdateMe 更新当前用户资料
// @Summary 更新当前用户资料
// @Description 仅更新提供的字段，profileImage 可为内联图片
// @Tags Users
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileRequest true "资料"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), caller(c), req.ToPatch())
	if err != nil {
		respondError(c, "failed to update profile", err)
		return
	}
	dto.Success(c, dto.ToUserResponse(user))
}

// UploadImage 上传内联图片
// @Summary 上传图片
// @Tags Uploads
// @Accept json
// @Produce json
// @Param body body dto.UploadImageRequest true "图片"
// @Success 201 {object} dto.Response[service.BlobRef]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/uploads/images [post]
func (h *UserHandler) UploadImage(c *gin.Context) {
	var req dto.UploadImageRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.accounts.UploadImage(c.Request.Context(), caller(c), req.Image, req.Folder)
	if err != nil {
		respondError(c, "failed to upload image", err)
		return
	}
	dto.Created(c, ref)
}
