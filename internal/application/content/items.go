package content

import (
	"context"
	"time"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/metrics"
)

// ListItems 列出作品章节，私有作品仅作者可见
func (s *Service) ListItems(ctx context.Context, viewer service.Identity, projectID string) ([]*entity.Item, error) {
	if _, err := s.readableProject(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	items, err := s.items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	return items, nil
}

// GetItem 读取单个章节
func (s *Service) GetItem(ctx context.Context, viewer service.Identity, projectID, itemID string) (*entity.Item, error) {
	if _, err := s.readableProject(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	item, err := s.items.GetByID(ctx, projectID, itemID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if item == nil {
		return nil, apperrors.ErrItemNotFound
	}
	return item, nil
}

// AddItem 新增单个章节
func (s *Service) AddItem(ctx context.Context, identity service.Identity, projectID string, in ItemInput) (*entity.Item, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if err := in.normalize(-1); err != nil {
		return nil, err
	}
	items, err := s.addItems(ctx, identity, projectID, []ItemInput{in})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// AddItems 按顺序批量新增章节，父节点须先于子节点
func (s *Service) AddItems(ctx context.Context, identity service.Identity, projectID string, inputs []ItemInput) ([]*entity.Item, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.Validation("items cannot be empty")
	}
	for i := range inputs {
		if err := inputs[i].normalize(i); err != nil {
			return nil, err
		}
	}
	return s.addItems(ctx, identity, projectID, inputs)
}

func (s *Service) addItems(ctx context.Context, identity service.Identity, projectID string, inputs []ItemInput) ([]*entity.Item, error) {
	created := make([]*entity.Item, 0, len(inputs))
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}

		for _, in := range inputs {
			item := &entity.Item{
				ProjectID:   projectID,
				ItemType:    in.ItemType,
				Name:        in.Name,
				Description: in.Description,
				Content:     in.Content,
				Metadata:    in.Metadata,
				OrderIndex:  in.OrderIndex,
				WordCount:   entity.CountWords(in.Content),
			}
			// 深度取自存储中的父节点，父节点不存在时作为根节点
			if in.ParentItemID != nil && *in.ParentItemID != "" {
				parent, err := s.items.GetByID(ctx, projectID, *in.ParentItemID)
				if err != nil {
					return apputil.StorageError(err)
				}
				if parent != nil {
					item.ParentItemID = &parent.ID
					item.DepthLevel = parent.DepthLevel + 1
				}
			}
			if err := s.items.Create(ctx, item); err != nil {
				return apputil.StorageError(err)
			}
			created = append(created, item)
		}
		return s.recomputeWordCount(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}
	metrics.ItemsWrittenTotal.WithLabelValues("create").Add(float64(len(created)))
	return created, nil
}

// UpdateItem 稀疏更新单个章节，未提供任何字段时返回校验错误
func (s *Service) UpdateItem(ctx context.Context, identity service.Identity, projectID, itemID string, patch ItemPatch) (*entity.Item, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if patch.isEmpty() {
		return nil, apperrors.Validation("no fields to update")
	}

	var updated *entity.Item
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}
		item, applied, err := s.applyItemPatch(ctx, projectID, itemID, patch)
		if err != nil {
			return err
		}
		if item == nil {
			return apperrors.ErrItemNotFound
		}
		if !applied {
			return apperrors.Validation("no fields to update")
		}
		if err := s.recomputeWordCount(ctx, projectID); err != nil {
			return err
		}
		updated, err = s.items.GetByID(ctx, projectID, itemID)
		return apputil.StorageError(err)
	})
	if err != nil {
		return nil, err
	}
	metrics.ItemsWrittenTotal.WithLabelValues("update").Inc()
	return updated, nil
}

// UpdateItems 批量稀疏更新，空补丁与不属于该作品的章节被跳过，结束后总是重算字数
func (s *Service) UpdateItems(ctx context.Context, identity service.Identity, projectID string, patches []ItemPatch) ([]*entity.Item, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if len(patches) == 0 {
		return nil, apperrors.Validation("items cannot be empty")
	}

	updated := make([]*entity.Item, 0, len(patches))
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}

		var ids []string
		for _, patch := range patches {
			if patch.ID == "" || patch.isEmpty() {
				continue
			}
			item, applied, err := s.applyItemPatch(ctx, projectID, patch.ID, patch)
			if err != nil {
				return err
			}
			if item != nil && applied {
				ids = append(ids, patch.ID)
			}
		}

		if err := s.recomputeWordCount(ctx, projectID); err != nil {
			return err
		}
		for _, id := range ids {
			item, err := s.items.GetByID(ctx, projectID, id)
			if err != nil {
				return apputil.StorageError(err)
			}
			if item != nil {
				updated = append(updated, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ItemsWrittenTotal.WithLabelValues("update").Add(float64(len(updated)))
	return updated, nil
}

// applyItemPatch 写入单个章节的补丁；章节不存在时返回 nil，未写入时 applied 为 false
func (s *Service) applyItemPatch(ctx context.Context, projectID, itemID string, patch ItemPatch) (*entity.Item, bool, error) {
	if patch.Metadata != nil && patch.hasMetadataPatch() {
		return nil, false, apperrors.Validation("metadata and metadataPatch are mutually exclusive")
	}

	item, err := s.items.GetByID(ctx, projectID, itemID)
	if err != nil {
		return nil, false, apputil.StorageError(err)
	}
	if item == nil {
		return nil, false, nil
	}

	if patch.hasMetadataPatch() {
		merged, err := applyMetadataPatch(item.Metadata, patch.MetadataPatch)
		if err != nil {
			return nil, false, err
		}
		if merged == nil {
			merged = map[string]any{}
		}
		patch.Metadata = merged
	}

	set, err := BuildItemUpdate(patch)
	if err != nil {
		return nil, false, err
	}
	if set.Empty() {
		return item, false, nil
	}

	rows, err := s.items.UpdateFields(ctx, projectID, itemID, set.Values(time.Now()))
	if err != nil {
		return nil, false, apputil.StorageError(err)
	}
	if rows == 0 {
		return nil, false, nil
	}
	return item, true, nil
}

// DeleteItem 删除章节及其子树并重算字数
func (s *Service) DeleteItem(ctx context.Context, identity service.Identity, projectID, itemID string) error {
	if err := apputil.RequireIdentity(identity); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedProject(ctx, projectID, identity.UserID); err != nil {
			return err
		}
		rows, err := s.items.Delete(ctx, projectID, itemID)
		if err != nil {
			return apputil.StorageError(err)
		}
		if rows == 0 {
			return apperrors.ErrItemNotFound
		}
		return s.recomputeWordCount(ctx, projectID)
	})
	if err != nil {
		return err
	}
	metrics.ItemsWrittenTotal.WithLabelValues("delete").Inc()
	return nil
}
