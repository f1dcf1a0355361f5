package wire

import (
	"quilkalam-api/internal/infrastructure/persistence/postgres"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	Client      *postgres.Client
	TxManager   *postgres.TxManager
	UserRepo    *postgres.UserRepository
	ProjectRepo *postgres.ProjectRepository
	ItemRepo    *postgres.ItemRepository
}
