package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/repository"
)

const projectViewColumns = "p.*, " +
	"COALESCE(u.display_name, '') AS author_display_name, " +
	"COALESCE(u.profile_image_url, '') AS author_profile_image, " +
	"COALESCE(u.bio, '') AS author_bio"

// ProjectRepository 作品仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建作品仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建作品
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	// 布尔开关带数据库默认值，需显式写入 false
	if err := db.Select("*").Omit(clause.Associations).Create(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", translateError(err))
	}
	return nil
}

// GetByID 根据 ID 获取作品
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var project entity.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// GetView 获取作品及作者快照
func (r *ProjectRepository) GetView(ctx context.Context, id string) (*entity.ProjectView, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetView")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var view entity.ProjectView
	err := db.Table("published_projects AS p").
		Select(projectViewColumns).
		Joins("LEFT JOIN users u ON u.id = p.user_id").
		Where("p.id = ?", id).
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project view: %w", err)
	}
	return &view, nil
}

// List 分页列出公开且已发布的作品
func (r *ProjectRepository) List(ctx context.Context, filter *repository.ProjectFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.ProjectView], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Table("published_projects AS p").
			Joins("LEFT JOIN users u ON u.id = p.user_id").
			Where("p.is_public = ? AND p.status = ?", true, entity.ProjectStatusPublished)
		if filter == nil {
			return tx
		}
		if filter.Type != "" {
			tx = tx.Where("p.type = ?", filter.Type)
		}
		if filter.Genre != "" {
			tx = tx.Where("p.genre = ?", filter.Genre)
		}
		if filter.UserID != "" {
			tx = tx.Where("p.user_id = ?", filter.UserID)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			term := "%" + escapeLike(strings.ToLower(search)) + "%"
			tx = tx.Where(`(LOWER(p.title) LIKE ? ESCAPE '\' OR LOWER(p.description) LIKE ? ESCAPE '\')`, term, term)
		}
		return tx
	}

	var total int64
	if err := db.Scopes(scope).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	var views []*entity.ProjectView
	err := db.Scopes(scope).
		Select(projectViewColumns).
		Order("p.published_at DESC, p.id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Scan(&views).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	span.SetAttributes(attribute.Int64("projects.total", total))
	return repository.NewPagedResult(views, total, pagination), nil
}

// UpdateFields 按列更新作品
func (r *ProjectRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.UpdateFields")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Project{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update project: %w", translateError(err))
	}
	return nil
}

// Delete 删除作品
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("id = ?", id).Delete(&entity.Project{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// LockForUpdate 对作品行加行锁，SQLite 无行锁，依赖其库级写锁
func (r *ProjectRepository) LockForUpdate(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.LockForUpdate")
	defer span.End()

	db := getDB(ctx, r.client.db).Model(&entity.Project{}).Where("id = ?", id)
	if r.client.Dialect() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []string
	if err := db.Limit(1).Pluck("id", &ids).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to lock project: %w", err)
	}
	return len(ids) > 0, nil
}

// AdjustCounter 原子调整计数列，减少时下限为 0
func (r *ProjectRepository) AdjustCounter(ctx context.Context, id string, counter repository.ProjectCounter, delta int) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.AdjustCounter")
	span.SetAttributes(
		attribute.String("project.counter", string(counter)),
		attribute.Int("project.delta", delta),
	)
	defer span.End()

	switch counter {
	case repository.CounterViews, repository.CounterLikes, repository.CounterComments:
	default:
		return fmt.Errorf("unknown project counter: %q", counter)
	}
	if delta == 0 {
		return nil
	}

	col := string(counter)
	var expr clause.Expr
	if delta > 0 {
		expr = gorm.Expr(col+" + ?", delta)
	} else {
		expr = gorm.Expr("CASE WHEN "+col+" > ? THEN "+col+" - ? ELSE 0 END", -delta, -delta)
	}

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Project{}).Where("id = ?", id).UpdateColumn(col, expr).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to adjust %s: %w", col, err)
	}
	return nil
}

// RecomputeWordCount 以章节字数之和重算作品字数并刷新 updated_at
func (r *ProjectRepository) RecomputeWordCount(ctx context.Context, id string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.RecomputeWordCount")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	row := db.Model(&entity.Item{}).
		Select("COALESCE(SUM(word_count), 0)").
		Where("project_id = ?", id).
		Row()
	if err := row.Scan(&total); err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to sum word count: %w", err)
	}

	err := db.Model(&entity.Project{}).Where("id = ?", id).UpdateColumns(map[string]any{
		"word_count": total,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to update word count: %w", err)
	}

	span.SetAttributes(attribute.Int64("project.word_count", total))
	return total, nil
}
