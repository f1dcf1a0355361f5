// Package content 实现作品与章节内容存储：发布、读取、章节增删改及字数维护
package content

import (
	"context"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
)

// 图片上传目录
const coverNamespace = "covers"

// Service 内容服务
type Service struct {
	tx       repository.Transactor
	projects repository.ProjectRepository
	items    repository.ItemRepository
	blobs    service.BlobStore

	defaultPageSize int
	maxPageSize     int
}

// NewService 创建内容服务
func NewService(
	tx repository.Transactor,
	projects repository.ProjectRepository,
	items repository.ItemRepository,
	blobs service.BlobStore,
	cfg *config.ContentConfig,
) *Service {
	s := &Service{
		tx:              tx,
		projects:        projects,
		items:           items,
		blobs:           blobs,
		defaultPageSize: repository.DefaultPageSize,
		maxPageSize:     repository.MaxPageSize,
	}
	if cfg != nil {
		if cfg.DefaultPageSize > 0 {
			s.defaultPageSize = cfg.DefaultPageSize
		}
		if cfg.MaxPageSize > 0 {
			s.maxPageSize = cfg.MaxPageSize
		}
	}
	return s
}

// ownedProject 加载作品并校验归属
func (s *Service) ownedProject(ctx context.Context, projectID, userID string) (*entity.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	if !project.IsOwnedBy(userID) {
		return nil, apperrors.Forbidden("you do not own this project")
	}
	return project, nil
}

// readableProject 公开作品或作者本人可读
func (s *Service) readableProject(ctx context.Context, projectID string, viewer service.Identity) (*entity.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if project == nil || !(project.IsPublic || project.IsOwnedBy(viewer.UserID)) {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// storeImage 内联图片上传到对象存储，其余值原样返回
func (s *Service) storeImage(ctx context.Context, value string) (string, error) {
	if !service.IsInlineImage(value) {
		return value, nil
	}
	if s.blobs == nil {
		return "", apperrors.ErrStorage.WithDetail("blob store not configured")
	}
	ref, err := s.blobs.Put(ctx, value, coverNamespace)
	if err != nil {
		if apperrors.IsAppError(err) {
			return "", err
		}
		return "", apperrors.ErrStorage.WithError(err)
	}
	return ref.URL, nil
}

// recomputeWordCount 重算作品字数
func (s *Service) recomputeWordCount(ctx context.Context, projectID string) error {
	if _, err := s.projects.RecomputeWordCount(ctx, projectID); err != nil {
		return apputil.StorageError(err)
	}
	return nil
}
