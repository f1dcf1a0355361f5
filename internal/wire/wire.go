//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"quilkalam-api/internal/application/account"
	"quilkalam-api/internal/application/community"
	"quilkalam-api/internal/application/content"
	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/infrastructure/persistence/postgres"
	"quilkalam-api/internal/interfaces/http/handler"
	"quilkalam-api/internal/interfaces/http/router"
)

// InitializeDataLayer 初始化数据层（用于 bootstrap）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		InfraSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet 数据库提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewProjectRepository,
	postgres.NewItemRepository,
	postgres.NewLikeRepository,
	postgres.NewFollowRepository,
	postgres.NewCommentRepository,
	postgres.NewReadingHistoryRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ProjectRepository), new(*postgres.ProjectRepository)),
	wire.Bind(new(repository.ItemRepository), new(*postgres.ItemRepository)),
	wire.Bind(new(repository.LikeRepository), new(*postgres.LikeRepository)),
	wire.Bind(new(repository.FollowRepository), new(*postgres.FollowRepository)),
	wire.Bind(new(repository.CommentRepository), new(*postgres.CommentRepository)),
	wire.Bind(new(repository.ReadingHistoryRepository), new(*postgres.ReadingHistoryRepository)),
)

// InfraSet 缓存、限流、对象存储与身份提供者
var InfraSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
	ProvideBlobStore,
	ProvideIdentityProvider,
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	ProvideContentConfig,
	ProvideCommunityRepositories,
	content.NewService,
	community.NewService,
	account.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewProjectHandler,
	handler.NewItemHandler,
	handler.NewCommunityHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
