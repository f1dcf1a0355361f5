package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"quilkalam-api/pkg/logger"
)

// Limiter 按键限流接口
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Fallback 主限流器出错时改用备用限流器
type Fallback struct {
	primary   Limiter
	secondary Limiter
	degraded  atomic.Bool
}

// NewFallback 创建带降级的限流器，primary 为空时直接使用 secondary
func NewFallback(primary, secondary Limiter) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Allow 实现 Limiter
func (f *Fallback) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if f.primary != nil {
		allowed, err := f.primary.Allow(ctx, key, limit, window)
		if err == nil {
			if f.degraded.CompareAndSwap(true, false) {
				logger.Info(ctx, "rate limiter recovered")
			}
			return allowed, nil
		}
		if f.degraded.CompareAndSwap(false, true) {
			logger.Warn(ctx, "rate limiter degraded to local fallback", "error", err.Error())
		}
	}
	return f.secondary.Allow(ctx, key, limit, window)
}
