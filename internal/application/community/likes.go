package community

import (
	"context"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/pkg/metrics"
)

// ToggleLike 切换点赞状态，返回切换后是否已点赞
//
// 点赞行是唯一事实来源，计数在同一事务内原子调整，取消时不低于 0。
func (s *Service) ToggleLike(ctx context.Context, identity service.Identity, projectID string) (bool, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return false, err
	}

	var liked bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.visibleProject(ctx, projectID, identity); err != nil {
			return err
		}

		existing, err := s.likes.Get(ctx, projectID, identity.UserID)
		if err != nil {
			return apputil.StorageError(err)
		}

		if existing != nil {
			if _, err := s.likes.Delete(ctx, projectID, identity.UserID); err != nil {
				return apputil.StorageError(err)
			}
			liked = false
			return apputil.StorageError(s.projects.AdjustCounter(ctx, projectID, repository.CounterLikes, -1))
		}

		if err := s.likes.Create(ctx, &entity.Like{ProjectID: projectID, UserID: identity.UserID}); err != nil {
			return apputil.StorageError(err)
		}
		liked = true
		return apputil.StorageError(s.projects.AdjustCounter(ctx, projectID, repository.CounterLikes, 1))
	})
	if err != nil {
		return false, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	metrics.LikesToggledTotal.WithLabelValues(state).Inc()
	return liked, nil
}

// GetLikeState 查询调用方是否已点赞
func (s *Service) GetLikeState(ctx context.Context, identity service.Identity, projectID string) (bool, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return false, err
	}
	like, err := s.likes.Get(ctx, projectID, identity.UserID)
	if err != nil {
		return false, apputil.StorageError(err)
	}
	return like != nil, nil
}
