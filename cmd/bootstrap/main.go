// Package main 初始化数据库结构并可选地写入演示账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层
	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 迁移表结构
	if err := dataLayer.Client.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Printf("Schema migrated (%s)\n", cfg.Database.Driver)

	// 4. 可选的演示账号
	phone := os.Getenv("BOOTSTRAP_SEED_PHONE")
	if phone == "" {
		fmt.Println("BOOTSTRAP_SEED_PHONE not set, skipping seed")
		return
	}
	password := os.Getenv("BOOTSTRAP_SEED_PASSWORD")
	if len(password) < 6 {
		log.Fatalf("BOOTSTRAP_SEED_PASSWORD must be at least 6 characters")
	}

	exists, err := dataLayer.UserRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		log.Fatalf("failed to check seed user: %v", err)
	}
	if exists {
		fmt.Printf("Seed user %s already exists\n", phone)
		return
	}

	user := entity.NewUser(phone, "Demo Author")
	if err := user.SetPassword(password); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	if err := dataLayer.UserRepo.Create(ctx, user); err != nil {
		log.Fatalf("failed to create seed user: %v", err)
	}
	fmt.Printf("Seed user created with ID: %s\n", user.ID)
}
