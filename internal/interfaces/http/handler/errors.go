// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/interfaces/http/dto"
	"quilkalam-api/internal/interfaces/http/middleware"
	"quilkalam-api/internal/interfaces/http/validation"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/logger"
)

// respondError 输出错误响应，服务端错误记录日志
func respondError(c *gin.Context, msg string, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), msg, err, "path", c.FullPath())
	}
	dto.AppError(c, appErr)
}

// bindJSON 绑定请求体，失败时直接输出 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.AppError(c, validation.BindError(err))
		return false
	}
	return true
}

// caller 当前请求身份
func caller(c *gin.Context) service.Identity {
	return middleware.GetIdentity(c)
}
