package community

import (
	"context"
	"time"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
)

// ProgressInput 阅读进度输入
type ProgressInput struct {
	ProjectID          string
	LastReadItemID     *string
	ProgressPercentage float64
}

// UpsertProgress 记录阅读进度，按 (用户, 作品) 插入或更新
func (s *Service) UpsertProgress(ctx context.Context, identity service.Identity, in ProgressInput) (*entity.ReadingHistory, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if !entity.ValidProgress(in.ProgressPercentage) {
		return nil, apperrors.Validation("progressPercentage must be between 0 and 100")
	}
	if in.LastReadItemID != nil && *in.LastReadItemID == "" {
		in.LastReadItemID = nil
	}

	if _, err := s.visibleProject(ctx, in.ProjectID, identity); err != nil {
		return nil, err
	}
	if in.LastReadItemID != nil {
		item, err := s.items.GetByID(ctx, in.ProjectID, *in.LastReadItemID)
		if err != nil {
			return nil, apputil.StorageError(err)
		}
		if item == nil {
			return nil, apperrors.ErrItemNotFound
		}
	}

	err := s.history.Upsert(ctx, &entity.ReadingHistory{
		UserID:             identity.UserID,
		ProjectID:          in.ProjectID,
		LastReadItemID:     in.LastReadItemID,
		ProgressPercentage: in.ProgressPercentage,
		LastReadAt:         time.Now(),
	})
	if err != nil {
		return nil, apputil.StorageError(err)
	}

	saved, err := s.history.Get(ctx, identity.UserID, in.ProjectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	return saved, nil
}

// GetProgress 读取调用方在某作品上的进度，没有记录时返回 nil
func (s *Service) GetProgress(ctx context.Context, identity service.Identity, projectID string) (*entity.ReadingHistory, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	history, err := s.history.Get(ctx, identity.UserID, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	return history, nil
}

// ListHistory 最近阅读记录
func (s *Service) ListHistory(ctx context.Context, identity service.Identity) ([]*entity.ReadingHistoryView, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	rows, err := s.history.ListByUser(ctx, identity.UserID, s.historyLimit)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if rows == nil {
		rows = []*entity.ReadingHistoryView{}
	}
	return rows, nil
}
