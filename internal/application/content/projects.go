package content

import (
	"context"
	"strings"
	"time"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/metrics"
)

// projectFields 作品可更新字段表
var projectFields = []apputil.Field[ProjectPatch]{
	{Name: "title", Column: "title", Value: apputil.Ptr(func(p ProjectPatch) *string { return p.Title })},
	{Name: "description", Column: "description", Value: apputil.Ptr(func(p ProjectPatch) *string { return p.Description })},
	{Name: "genre", Column: "genre", Value: apputil.Ptr(func(p ProjectPatch) *string { return p.Genre })},
	{Name: "coverImage", Column: "cover_image_url", Value: apputil.Ptr(func(p ProjectPatch) *string { return p.CoverImage })},
	{Name: "backImage", Column: "back_image_url", Value: apputil.Ptr(func(p ProjectPatch) *string { return p.BackImage })},
	{Name: "categories", Column: "categories", Value: stringListValue(func(p ProjectPatch) *[]string { return p.Categories })},
	{Name: "tags", Column: "tags", Value: stringListValue(func(p ProjectPatch) *[]string { return p.Tags })},
}

func stringListValue(get func(ProjectPatch) *[]string) func(ProjectPatch) (any, bool, error) {
	return func(p ProjectPatch) (any, bool, error) {
		v := get(p)
		if v == nil {
			return nil, false, nil
		}
		return entity.StringList(*v), true, nil
	}
}

// GetProject 读取作品详情，非公开作品仅作者可见，每次读取浏览数加一
func (s *Service) GetProject(ctx context.Context, viewer service.Identity, projectID string) (*ProjectDetail, error) {
	view, err := s.projects.GetView(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if view == nil || !(view.IsPublic || view.IsOwnedBy(viewer.UserID)) {
		return nil, apperrors.ErrProjectNotFound
	}

	items, err := s.items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}

	if err := s.projects.AdjustCounter(ctx, projectID, repository.CounterViews, 1); err != nil {
		return nil, apputil.StorageError(err)
	}
	view.ViewCount++
	metrics.ProjectViewsTotal.Inc()

	return &ProjectDetail{Project: view, Items: items}, nil
}

// ListProjects 分页列出公开且已发布的作品
func (s *Service) ListProjects(ctx context.Context, q ListQuery) (*repository.PagedResult[*entity.ProjectView], error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, apperrors.Validation("invalid project type")
	}
	pagination := repository.NewBoundedPagination(q.Page, q.PageSize, s.defaultPageSize, s.maxPageSize)
	result, err := s.projects.List(ctx, &repository.ProjectFilter{
		Type:   q.Type,
		Genre:  q.Genre,
		UserID: q.UserID,
		Search: strings.TrimSpace(q.Search),
	}, pagination)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	return result, nil
}

// UpdateProject 作者更新作品元数据，未提供任何字段时不写入
func (s *Service) UpdateProject(ctx context.Context, identity service.Identity, projectID string, patch ProjectPatch) (*entity.Project, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperrors.Validation("title cannot be empty")
	}

	// 先校验归属，避免为无权请求上传图片
	project, err := s.ownedProject(ctx, projectID, identity.UserID)
	if err != nil {
		return nil, err
	}

	if patch.CoverImage != nil {
		url, err := s.storeImage(ctx, *patch.CoverImage)
		if err != nil {
			return nil, err
		}
		patch.CoverImage = &url
	}
	if patch.BackImage != nil {
		url, err := s.storeImage(ctx, *patch.BackImage)
		if err != nil {
			return nil, err
		}
		patch.BackImage = &url
	}

	set, err := apputil.Build(projectFields, patch)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return project, nil
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}
		return apputil.StorageError(s.projects.UpdateFields(ctx, projectID, set.Values(time.Now())))
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if updated == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return updated, nil
}

// DeleteProject 作者删除作品，章节、点赞、评论与阅读记录级联删除
func (s *Service) DeleteProject(ctx context.Context, identity service.Identity, projectID string) error {
	if err := apputil.RequireIdentity(identity); err != nil {
		return err
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}
		return apputil.StorageError(s.projects.Delete(ctx, projectID))
	})
}
