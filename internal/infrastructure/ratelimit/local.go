// Package ratelimit 提供进程内按键限流实现，用于未启用 Redis 的部署
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL 超过该时长未访问的键会被回收
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter 按键令牌桶限流器
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	burst   int
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter 创建按键限流器，burst 为每个键的突发容量
func NewKeyedLimiter(burst int) *KeyedLimiter {
	l := &KeyedLimiter{
		entries: make(map[string]*entry),
		burst:   burst,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(time.Minute)
	return l
}

// Allow 每个键在 window 内平均允许 limit 次请求
func (l *KeyedLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	return l.limiterFor(key, limit, window).AllowN(l.now(), 1), nil
}

func (l *KeyedLimiter) limiterFor(key string, limit int, window time.Duration) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	burst := l.burst
	if burst < 1 {
		burst = limit
	}
	every := rate.Limit(float64(limit) / window.Seconds())
	e := &entry{limiter: rate.NewLimiter(every, burst), lastSeen: now}
	l.entries[key] = e
	return e.limiter
}

// Len 当前跟踪的键数量
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Evict 回收空闲的键
func (l *KeyedLimiter) Evict() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idleTTL)
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop 停止后台回收
func (l *KeyedLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *KeyedLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Evict()
		case <-l.done:
			return
		}
	}
}
