package community

import (
	"context"
	"strings"

	"quilkalam-api/internal/application/apputil"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
	"quilkalam-api/internal/domain/service"
	apperrors "quilkalam-api/pkg/errors"
	"quilkalam-api/pkg/logger"
	"quilkalam-api/pkg/metrics"
)

// CommentInput 新增评论输入
type CommentInput struct {
	ProjectID       string
	Content         string
	ParentCommentID *string
}

// CreateComment 发表评论，计数在同一事务内加一
func (s *Service) CreateComment(ctx context.Context, identity service.Identity, in CommentInput) (*entity.Comment, error) {
	if err := apputil.RequireIdentity(identity); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperrors.Validation("content is required")
	}
	if in.ParentCommentID != nil && *in.ParentCommentID == "" {
		in.ParentCommentID = nil
	}

	comment := &entity.Comment{
		ProjectID:       in.ProjectID,
		UserID:          identity.UserID,
		ParentCommentID: in.ParentCommentID,
		Content:         content,
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockProject(ctx, in.ProjectID); err != nil {
			return err
		}
		project, err := s.visibleProject(ctx, in.ProjectID, identity)
		if err != nil {
			return err
		}
		if !project.AllowComments {
			return apperrors.Forbidden("comments are disabled for this project")
		}

		if in.ParentCommentID != nil {
			parent, err := s.comments.GetByID(ctx, *in.ParentCommentID)
			if err != nil {
				return apputil.StorageError(err)
			}
			if parent == nil || parent.ProjectID != in.ProjectID {
				return apperrors.ErrCommentNotFound.WithDetail("parent comment not found in this project")
			}
		}

		if err := s.comments.Create(ctx, comment); err != nil {
			return apputil.StorageError(err)
		}
		return apputil.StorageError(s.projects.AdjustCounter(ctx, in.ProjectID, repository.CounterComments, 1))
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsTotal.WithLabelValues("create").Inc()
	return comment, nil
}

// ListComments 按时间倒序列出评论
func (s *Service) ListComments(ctx context.Context, viewer service.Identity, projectID string) ([]*entity.CommentView, error) {
	if _, err := s.visibleProject(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apputil.StorageError(err)
	}
	if comments == nil {
		comments = []*entity.CommentView{}
	}
	return comments, nil
}

// DeleteComment 作者删除评论，回复级联删除，计数按被删除的子树大小扣减
//
// 创建与删除都先锁定作品行，子树统计与删除之间不会插入新回复。
func (s *Service) DeleteComment(ctx context.Context, identity service.Identity, commentID string) error {
	if err := apputil.RequireIdentity(identity); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		comment, err := s.comments.GetByID(ctx, commentID)
		if err != nil {
			return apputil.StorageError(err)
		}
		if comment == nil {
			return apperrors.ErrCommentNotFound
		}
		if comment.UserID != identity.UserID {
			return apperrors.Forbidden("you can only delete your own comments")
		}

		if err := s.lockProject(ctx, comment.ProjectID); err != nil {
			return err
		}
		// 加锁前可能已被并发删除
		if comment, err = s.comments.GetByID(ctx, commentID); err != nil {
			return apputil.StorageError(err)
		}
		if comment == nil {
			return apperrors.ErrCommentNotFound
		}

		removed, err = s.comments.CountThread(ctx, commentID)
		if err != nil {
			return apputil.StorageError(err)
		}
		if err := s.comments.Delete(ctx, commentID); err != nil {
			return apputil.StorageError(err)
		}
		return apputil.StorageError(s.projects.AdjustCounter(ctx, comment.ProjectID, repository.CounterComments, -int(removed)))
	})
	if err != nil {
		return err
	}

	metrics.CommentsTotal.WithLabelValues("delete").Add(float64(removed))
	logger.Debug(ctx, "comment deleted", "comment_id", commentID, "removed", removed)
	return nil
}

// lockProject 锁定作品行以串行化同一作品上的评论计数变更
func (s *Service) lockProject(ctx context.Context, projectID string) error {
	found, err := s.projects.LockForUpdate(ctx, projectID)
	if err != nil {
		return apputil.StorageError(err)
	}
	if !found {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
