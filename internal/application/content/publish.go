package content

import (
	"context"
	"strings"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/pkg/logger"
	"quilkalam-api/pkg/metrics"
)

// Publish 一次性发布作品及全部章节
//
// 章节按给定顺序插入，ParentRef 只能解析到同批次中更早插入的章节，
// 无法解析的父引用使章节成为根节点。深度与字数按调用方提供的值保存。
func (s *Service) Publish(ctx context.Context, identity service.Identity, in PublishInput) (*PublishResult, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	coverURL, err := s.storeImage(ctx, in.CoverImage)
	if err != nil {
		return nil, err
	}
	backURL, err := s.storeImage(ctx, in.BackImage)
	if err != nil {
		return nil, err
	}

	project := entity.NewProject(identity.UserID, in.Type, strings.TrimSpace(in.Title))
	project.Description = in.Description
	project.Genre = in.Genre
	project.AuthorName = in.AuthorName
	project.CoverImageURL = coverURL
	project.BackImageURL = backURL
	project.WordCount = in.WordCount
	project.ISBN = in.ISBN
	project.Publisher = in.Publisher
	project.PublicationDate = in.PublicationDate
	project.Price = in.Price
	if in.Language != "" {
		project.Language = in.Language
	}
	project.CopyrightText = in.CopyrightText
	project.Categories = entity.StringList(in.Categories)
	project.Tags = entity.StringList(in.Tags)
	if in.IsPublic != nil {
		project.IsPublic = *in.IsPublic
	}
	if in.AllowComments != nil {
		project.AllowComments = *in.AllowComments
	}
	if in.AllowDownloads != nil {
		project.AllowDownloads = *in.AllowDownloads
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, project); err != nil {
			return apputil.StorageError(err)
		}

		refs := make(map[string]string, len(in.Items))
		for _, it := range in.Items {
			item := &entity.Item{
				ProjectID:   project.ID,
				ItemType:    it.ItemType,
				Name:        it.Name,
				Description: it.Description,
				Content:     it.Content,
				Metadata:    it.Metadata,
				OrderIndex:  it.OrderIndex,
				DepthLevel:  it.DepthLevel,
				WordCount:   it.WordCount,
			}
			if parent := it.parentRef(); parent != "" {
				if parentID, ok := refs[parent]; ok {
					item.ParentItemID = &parentID
				}
			}
			if err := s.items.Create(ctx, item); err != nil {
				return apputil.StorageError(err)
			}
			if it.Ref != "" {
				refs[it.Ref] = item.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProjectsPublishedTotal.WithLabelValues(string(project.Type)).Inc()
	metrics.ItemsWrittenTotal.WithLabelValues("create").Add(float64(len(in.Items)))
	logger.Info(ctx, "project published",
		"project_id", project.ID,
		"items", len(in.Items),
	)

	return &PublishResult{
		ProjectID:   project.ID,
		PublishedAt: project.PublishedAt,
	}, nil
}
