// Package community 实现点赞、关注、评论与阅读进度
package community

import (
	"context"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
)

// 阅读记录默认条数
const defaultHistoryLimit = 50

// Service 社区服务
type Service struct {
	tx       repository.Transactor
	projects repository.ProjectRepository
	items    repository.ItemRepository
	users    repository.UserRepository
	likes    repository.LikeRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository
	history  repository.ReadingHistoryRepository

	historyLimit int
}

// Repositories 社区服务依赖的仓储
type Repositories struct {
	Projects repository.ProjectRepository
	Items    repository.ItemRepository
	Users    repository.UserRepository
	Likes    repository.LikeRepository
	Follows  repository.FollowRepository
	Comments repository.CommentRepository
	History  repository.ReadingHistoryRepository
}

// NewService 创建社区服务
func NewService(tx repository.Transactor, repos Repositories, cfg *config.ContentConfig) *Service {
	s := &Service{
		tx:           tx,
		projects:     repos.Projects,
		items:        repos.Items,
		users:        repos.Users,
		likes:        repos.Likes,
		follows:      repos.Follows,
		comments:     repos.Comments,
		history:      repos.History,
		historyLimit: defaultHistoryLimit,
	}
	if cfg != nil && cfg.HistoryLimit > 0 {
		s.historyLimit = cfg.HistoryLimit
	}
	return s
}

// existingProject 加载作品，不存在返回 NotFound
func (s *Service) existingProject(ctx context.Context, projectID string) (*entity.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// visibleProject 公开作品或作者本人可见
func (s *Service) visibleProject(ctx context.Context, projectID string, viewer service.Identity) (*entity.Project, error) {
	project, err := s.existingProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsPublic && !project.IsOwnedBy(viewer.UserID) {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}
