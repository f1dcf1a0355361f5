// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"quilkalam-api/internal/application/community"
	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/infrastructure/identity"
	"quilkalam-api/internal/infrastructure/persistence/postgres"
	"quilkalam-api/internal/infrastructure/persistence/redis"
	"quilkalam-api/internal/infrastructure/ratelimit"
	"quilkalam-api/internal/infrastructure/storage"
	"quilkalam-api/internal/interfaces/http/handler"
	"quilkalam-api/internal/interfaces/http/middleware"
	"quilkalam-api/pkg/logger"
)

// ProvidePostgresClient 提供数据库客户端，按配置执行自动迁移
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info(ctx, "database schema migrated", "driver", cfg.Database.Driver)
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 提供 Redis 客户端，未启用或不可达时返回 nil
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func()) {
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, using local rate limiter", "error", err.Error())
		return nil, func() {}
	}
	if client == nil {
		return nil, func() {}
	}
	return client, func() {
		_ = client.Close()
	}
}

// ProvideRateLimiter 提供限流器：Redis 滑动窗口优先，进程内令牌桶兜底
func ProvideRateLimiter(cfg *config.Config, redisClient *redis.Client) (middleware.RateLimiter, func()) {
	if !cfg.Security.RateLimit.Enabled {
		return nil, func() {}
	}
	local := ratelimit.NewKeyedLimiter(cfg.Security.RateLimit.Burst)
	var primary ratelimit.Limiter
	if redisClient != nil {
		primary = redis.NewRateLimiter(redisClient)
	}
	return ratelimit.NewFallback(primary, local), local.Stop
}

// ProvideBlobStore 提供本地对象存储
func ProvideBlobStore(cfg *config.Config) (service.BlobStore, error) {
	store, err := storage.NewLocalStore(&cfg.Storage.Local)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideIdentityProvider 提供 JWT 身份提供者
func ProvideIdentityProvider(cfg *config.Config) service.IdentityProvider {
	return identity.NewJWTProvider(&cfg.Security.JWT)
}

// ProvideContentConfig 提供内容配置
func ProvideContentConfig(cfg *config.Config) *config.ContentConfig {
	return &cfg.Content
}

// ProvideCommunityRepositories 组装社区服务所需仓储
func ProvideCommunityRepositories(
	projects repository.ProjectRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	likes repository.LikeRepository,
	follows repository.FollowRepository,
	comments repository.CommentRepository,
	history repository.ReadingHistoryRepository,
) community.Repositories {
	return community.Repositories{
		Projects: projects,
		Items:    items,
		Users:    users,
		Likes:    likes,
		Follows:  follows,
		Comments: comments,
		History:  history,
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	var cache handler.Pinger
	if redisClient != nil {
		cache = redisClient
	}
	return handler.NewHealthHandler(pg, cache, cfg.App.Version)
}
