package postgres

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"quilkalam-api/internal/domain/repository"
)

// TxManager 实现 repository.Transactor，事务通过 ctx 传递给各仓储
type TxManager struct {
	client *Client
}

// NewTxManager 创建事务管理器
func NewTxManager(client *Client) *TxManager {
	return &TxManager{client: client}
}

// WithTransaction 在事务中执行 fn，嵌套调用复用外层事务，fn 返回错误或 panic 时回滚
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "postgres.Transaction")
	defer span.End()

	err := m.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, repository.TxKey{}, tx))
	})
	span.SetAttributes(attribute.Bool("db.tx.committed", err == nil))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(repository.TxKey{}).(*gorm.DB)
	return tx
}

// getDB 上下文中有事务时使用事务连接
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
