//go:build !wireinject
// +build !wireinject

// 本文件按 wire.go 中的注入器手工装配，provider 集合变化时同步修改，
// 或运行 go generate ./internal/wire 由 wire 重新生成覆盖。
//go:generate go run -mod=mod github.com/google/wire/cmd/wire

package wire

import (
	"context"

	"quilkalam-api/internal/application/account"
	"quilkalam-api/internal/application/community"
	"quilkalam-api/internal/application/content"
	"quilkalam-api/internal/config"
	"quilkalam-api/internal/infrastructure/persistence/postgres"
	"quilkalam-api/internal/interfaces/http/handler"
	"quilkalam-api/internal/interfaces/http/router"
)

// Injectors from wire.go:

// InitializeDataLayer 初始化数据层（用于 bootstrap）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	client, cleanup, err := ProvidePostgresClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	txManager := postgres.NewTxManager(client)
	userRepository := postgres.NewUserRepository(client)
	projectRepository := postgres.NewProjectRepository(client)
	itemRepository := postgres.NewItemRepository(client)
	dataLayer := &DataLayer{
		Client:      client,
		TxManager:   txManager,
		UserRepo:    userRepository,
		ProjectRepo: projectRepository,
		ItemRepo:    itemRepository,
	}
	return dataLayer, func() {
		cleanup()
	}, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	client, cleanup, err := ProvidePostgresClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	redisClient, cleanup2 := ProvideRedisClientOptional(ctx, cfg)
	healthHandler := ProvideHealthHandler(cfg, client, redisClient)
	userRepository := postgres.NewUserRepository(client)
	identityProvider := ProvideIdentityProvider(cfg)
	blobStore, err := ProvideBlobStore(cfg)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	accountService := account.NewService(userRepository, identityProvider, blobStore)
	authHandler := handler.NewAuthHandler(accountService)
	userHandler := handler.NewUserHandler(accountService)
	txManager := postgres.NewTxManager(client)
	projectRepository := postgres.NewProjectRepository(client)
	itemRepository := postgres.NewItemRepository(client)
	contentConfig := ProvideContentConfig(cfg)
	contentService := content.NewService(txManager, projectRepository, itemRepository, blobStore, contentConfig)
	projectHandler := handler.NewProjectHandler(contentService)
	itemHandler := handler.NewItemHandler(contentService)
	likeRepository := postgres.NewLikeRepository(client)
	followRepository := postgres.NewFollowRepository(client)
	commentRepository := postgres.NewCommentRepository(client)
	readingHistoryRepository := postgres.NewReadingHistoryRepository(client)
	repositories := ProvideCommunityRepositories(projectRepository, itemRepository, userRepository, likeRepository, followRepository, commentRepository, readingHistoryRepository)
	communityService := community.NewService(txManager, repositories, contentConfig)
	communityHandler := handler.NewCommunityHandler(communityService)
	handlers := &router.Handlers{
		Health:    healthHandler,
		Auth:      authHandler,
		User:      userHandler,
		Project:   projectHandler,
		Item:      itemHandler,
		Community: communityHandler,
	}
	rateLimiter, cleanup3 := ProvideRateLimiter(cfg, redisClient)
	routerRouter := router.New(cfg, handlers, identityProvider, rateLimiter)
	return routerRouter, func() {
		cleanup3()
		cleanup2()
		cleanup()
	}, nil
}

// wire.go:
