package handler

import (
	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/application/account"
	"quilkalam-api/internal/interfaces/http/dto"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	accounts *account.Service
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(accounts *account.Service) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register 注册
// @Summary 用户注册
// @Description 以手机号和密码创建账号并返回访问令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), req.PhoneNumber, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, "failed to register user", err)
		return
	}
	dto.Created(c, dto.ToAuthResponse(result))
}

// Login 登录
// @Summary 用户登录
// @Description 校验手机号和密码并返回访问令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		respondError(c, "failed to login", err)
		return
	}
	dto.Success(c, dto.ToAuthResponse(result))
}
