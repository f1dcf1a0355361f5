// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/interfaces/http/dto"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/logger"
)

// RequireAuth 校验 Bearer 令牌，缺失或无效时返回 401
func RequireAuth(provider service.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := service.IdentityFromContext(c.Request.Context()); ok {
			c.Next()
			return
		}
		token, err := bearerToken(c)
		if err != nil {
			dto.AppError(c, err)
			return
		}
		identity, verr := provider.Verify(c.Request.Context(), token)
		if verr != nil {
			dto.AppError(c, apperrors.AsAppError(verr))
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth 携带有效令牌时注入身份，否则按匿名继续
func OptionalAuth(provider service.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if identity, verr := provider.Verify(c.Request.Context(), token); verr == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, *apperrors.AppError) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrTokenInvalid.WithDetail("invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func setIdentity(c *gin.Context, identity service.Identity) {
	c.Set("user_id", identity.UserID)
	ctx := service.WithIdentity(c.Request.Context(), identity)
	ctx = logger.WithContext(ctx, logger.UserIDKey, identity.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// GetIdentity 读取当前请求的身份，匿名时为空
func GetIdentity(c *gin.Context) service.Identity {
	identity, _ := service.IdentityFromContext(c.Request.Context())
	return identity
}
