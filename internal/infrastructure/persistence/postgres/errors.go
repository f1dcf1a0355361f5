package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quilkalam-api/internal/domain/repository"
)

// translateError 将 GORM 翻译后的约束错误映射为仓储层哨兵错误
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", repository.ErrReferenceMissing, err)
	default:
		return err
	}
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
