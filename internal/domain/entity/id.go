package entity

import "github.com/google/uuid"

// newID 生成实体主键
func newID() string {
	return uuid.NewString()
}
