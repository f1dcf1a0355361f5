// Package testutil 提供测试用的 SQLite 数据库与协作方替身
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/infrastructure/persistence/postgres"
)

// Repos 测试用仓储集合
type Repos struct {
	Client   *postgres.Client
	Tx       *postgres.TxManager
	Users    *postgres.UserRepository
	Projects *postgres.ProjectRepository
	Items    *postgres.ItemRepository
	Likes    *postgres.LikeRepository
	Follows  *postgres.FollowRepository
	Comments *postgres.CommentRepository
	History  *postgres.ReadingHistoryRepository
}

// NewRepos 在临时目录创建已迁移的 SQLite 数据库
func NewRepos(t *testing.T) *Repos {
	t.Helper()

	client, err := postgres.NewClient(&config.DatabaseConfig{
		Driver:   postgres.DriverSQLite,
		LogLevel: "silent",
		SQLite:   config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Migrate(context.Background()))

	return &Repos{
		Client:   client,
		Tx:       postgres.NewTxManager(client),
		Users:    postgres.NewUserRepository(client),
		Projects: postgres.NewProjectRepository(client),
		Items:    postgres.NewItemRepository(client),
		Likes:    postgres.NewLikeRepository(client),
		Follows:  postgres.NewFollowRepository(client),
		Comments: postgres.NewCommentRepository(client),
		History:  postgres.NewReadingHistoryRepository(client),
	}
}

// CreateUser 创建测试用户
func (r *Repos) CreateUser(t *testing.T, phone, displayName string) *entity.User {
	t.Helper()
	user := entity.NewUser(phone, displayName)
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, r.Users.Create(context.Background(), user))
	return user
}

// Identity 用户对应的调用方身份
func Identity(user *entity.User) service.Identity {
	return service.Identity{UserID: user.ID, PhoneNumber: user.PhoneNumber}
}

// FakeBlobStore 内存对象存储
type FakeBlobStore struct {
	mu   sync.Mutex
	Puts []string
	Err  error
}

// Put 记录调用并返回伪造地址
func (f *FakeBlobStore) Put(_ context.Context, dataURL, namespace string) (*service.BlobRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Puts = append(f.Puts, namespace)
	key := fmt.Sprintf("%s/blob-%d.png", namespace, len(f.Puts))
	return &service.BlobRef{URL: "https://cdn.test/" + key, Key: key, Width: 1, Height: 1}, nil
}
