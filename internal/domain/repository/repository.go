// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
	"math"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxOffset 偏移量上限，超出的页码被收紧到最后可表示的一页
	MaxOffset = math.MaxInt32
)

// TxKey 事务上下文键类型
type TxKey struct{}

// Transactor 事务管理接口
type Transactor interface {
	// WithTransaction 在事务中执行操作，嵌套调用复用外层事务
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pagination 分页参数
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPagination 创建分页参数
func NewPagination(page, pageSize int) Pagination {
	return NewBoundedPagination(page, pageSize, DefaultPageSize, MaxPageSize)
}

// NewBoundedPagination 按给定默认值与上限创建分页参数
func NewBoundedPagination(page, pageSize, defaultSize, maxSize int) Pagination {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	if maxSize < 1 {
		maxSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	if lastPage := MaxOffset/pageSize + 1; page > lastPage {
		page = lastPage
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Offset 计算偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit 获取限制数量
func (p Pagination) Limit() int {
	return p.PageSize
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult 创建分页结果
func NewPagedResult[T any](items []T, total int64, pagination Pagination) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pagination.PageSize > 0 {
		totalPages = int(total) / pagination.PageSize
		if int(total)%pagination.PageSize > 0 {
			totalPages++
		}
	}
	return &PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages,
	}
}

// 存储层约束冲突，由仓储实现从驱动错误翻译而来
var (
	ErrDuplicate        = errors.New("duplicate key")
	ErrReferenceMissing = errors.New("referenced row missing")
)
