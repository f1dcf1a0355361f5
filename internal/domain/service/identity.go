// Package service 定义领域服务与外部协作方接口
package service

import (
	"context"
)

// Identity 已认证调用方
type Identity struct {
	UserID      string
	PhoneNumber string
}

// IsZero 是否为空身份
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// IdentityProvider 身份令牌签发与校验
type IdentityProvider interface {
	// Issue 为身份签发访问令牌
	Issue(ctx context.Context, identity Identity) (string, error)

	// Verify 校验令牌并返回身份
	Verify(ctx context.Context, token string) (Identity, error)
}

type identityCtxKey struct{}

// WithIdentity 将身份写入 context
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		return nil
	}
	if identity.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext 从 context 读取身份
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok && !identity.IsZero()
}
