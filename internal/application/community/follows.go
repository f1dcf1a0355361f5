package community

import (
	"context"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/metrics"
)

// FollowKind 关注列表类型
type FollowKind string

const (
	FollowKindFollowers FollowKind = "followers"
	FollowKindFollowing FollowKind = "following"
)

// ToggleFollow 切换对目标用户的关注，返回切换后是否关注
func (s *Service) ToggleFollow(ctx context.Context, identity service.Identity, followingID string) (bool, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return false, err
	}
	if followingID == "" {
		return false, apperrors.Validation("followingId is required")
	}
	if followingID == identity.UserID {
		return false, apperrors.Validation("cannot follow yourself")
	}

	var following bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByID(ctx, followingID)
		if err != nil {
			return apputil.StorageError(err)
		}
		if target == nil {
			return apperrors.ErrUserNotFound
		}

		rows, err := s.follows.Delete(ctx, identity.UserID, followingID)
		if err != nil {
			return apputil.StorageError(err)
		}
		if rows > 0 {
			following = false
			return nil
		}

		following = true
		return apputil.StorageError(s.follows.Create(ctx, &entity.Follow{
			FollowerID:  identity.UserID,
			FollowingID: followingID,
		}))
	})
	if err != nil {
		return false, err
	}

	state := "unfollowed"
	if following {
		state = "followed"
	}
	metrics.FollowsToggledTotal.WithLabelValues(state).Inc()
	return following, nil
}

// ListFollows 列出关注者或关注对象，userID 为空时取调用方
func (s *Service) ListFollows(ctx context.Context, identity service.Identity, userID string, kind FollowKind) ([]*entity.FollowUser, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = identity.UserID
	}

	var (
		users []*entity.FollowUser
		err   error
	)
	switch kind {
	case FollowKindFollowers:
		users, err = s.follows.ListFollowers(ctx, userID)
	case FollowKindFollowing:
		users, err = s.follows.ListFollowing(ctx, userID)
	default:
		return nil, apperrors.Validation("type must be followers or following")
	}
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if users == nil {
		users = []*entity.FollowUser{}
	}
	return users, nil
}
