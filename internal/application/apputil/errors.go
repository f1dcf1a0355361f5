// Package apputil 提供应用层共用的身份校验、错误归类与稀疏更新构造
package apputil

import (
	"context"
	"errors"

	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
)

// RequireIdentity 空身份返回未认证错误
func RequireIdentity(identity service.Identity) error {
	if identity.IsZero() {
		return apperrors.Unauthenticated("authentication required")
	}
	return nil
}

// StorageError 将仓储层错误归类为应用错误
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Conflict("resource already exists").WithError(err)
	case errors.Is(err, repository.ErrReferenceMissing):
		return apperrors.ErrNotFound.WithDetail("referenced resource not found").WithError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrServiceUnavailable.WithError(err)
	default:
		return apperrors.ErrDatabase.WithError(err)
	}
}
