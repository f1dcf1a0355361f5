// Package identity 提供基于 JWT 的身份令牌实现
package identity

import (
	"context"
	"errors"
	"time"

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/utils"
)

// JWTProvider 使用 HS256 JWT 的身份提供者
type JWTProvider struct {
	manager *utils.JWTManager
	ttl     time.Duration
}

// NewJWTProvider 创建 JWT 身份提供者
func NewJWTProvider(cfg *config.JWTConfig) *JWTProvider {
	ttl := cfg.Expiration
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &JWTProvider{
		manager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		ttl:     ttl,
	}
}

// Issue 签发访问令牌
func (p *JWTProvider) Issue(_ context.Context, identity service.Identity) (string, error) {
	if identity.IsZero() {
		return "", apperrors.Unauthenticated("missing identity")
	}
	token, err := p.manager.GenerateToken(identity.UserID, identity.PhoneNumber, p.ttl)
	if err != nil {
		return "", apperrors.ErrIdentity.WithError(err)
	}
	return token, nil
}

// Verify 校验访问令牌
func (p *JWTProvider) Verify(_ context.Context, token string) (service.Identity, error) {
	if token == "" {
		return service.Identity{}, apperrors.ErrTokenMissing
	}
	claims, err := p.manager.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return service.Identity{}, apperrors.ErrTokenExpired
		}
		return service.Identity{}, apperrors.ErrTokenInvalid
	}
	return service.Identity{
		UserID:      claims.UserID,
		PhoneNumber: claims.PhoneNumber,
	}, nil
}
