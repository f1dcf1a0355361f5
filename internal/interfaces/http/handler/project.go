package handler

import (
	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/application/content"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/interfaces/http/dto"
)

// ProjectHandler 作品处理器
type ProjectHandler struct {
	content *content.Service
}

// NewProjectHandler 创建作品处理器
func NewProjectHandler(svc *content.Service) *ProjectHandler {
	return &ProjectHandler{content: svc}
}

// ListProjects 获取作品列表
// @Summary 获取作品列表
// @Description 分页列出公开作品，支持类型、题材、作者与标题搜索
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param type query string false "作品类型"
// @Param genre query string false "题材"
// @Param search query string false "标题关键字"
// @Param user_id query string false "作者 ID"
// @Success 200 {object} dto.Response[[]entity.ProjectView]
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.content.ListProjects(c.Request.Context(), content.ListQuery{
		Type:     entity.ProjectType(c.Query("type")),
		Genre:    c.Query("genre"),
		UserID:   dto.QueryAlias(c, "user_id", "userId"),
		Search:   c.Query("search"),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		respondError(c, "failed to list projects", err)
		return
	}
	dto.SuccessWithPage(c, result.Items, dto.NewPageMeta(result))
}

// Publish 发布作品
// @Summary 发布作品
// @Description 一次性创建作品及其章节树，章节可通过 ref 引用同批父节点
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.PublishRequest true "作品"
// @Success 201 {object} dto.Response[dto.PublishResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects/publish [post]
func (h *ProjectHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.content.Publish(c.Request.Context(), caller(c), req.ToInput())
	if err != nil {
		respondError(c, "failed to publish project", err)
		return
	}
	dto.Created(c, &dto.PublishResponse{ProjectID: result.ProjectID, PublishedAt: result.PublishedAt})
}

// GetProject 获取作品详情
// @Summary 获取作品详情
// @Description 返回作品及其全部章节，非公开作品仅作者可读，浏览数加一
// @Tags Projects
// @Produce json
// @Param pid path string true "作品 ID"
// @Success 200 {object} dto.Response[dto.ProjectDetailResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	detail, err := h.content.GetProject(c.Request.Context(), caller(c), dto.BindProjectID(c))
	if err != nil {
		respondError(c, "failed to get project", err)
		return
	}
	dto.Success(c, &dto.ProjectDetailResponse{Project: detail.Project, Items: detail.Items})
}

// UpdateProject 更新作品
// @Summary 更新作品
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "作品 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[entity.Project]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.content.UpdateProject(c.Request.Context(), caller(c), dto.BindProjectID(c), req.ToPatch())
	if err != nil {
		respondError(c, "failed to update project", err)
		return
	}
	dto.Success(c, project)
}

// DeleteProject 删除作品
// @Summary 删除作品
// @Description 删除作品并级联删除章节、点赞、评论与阅读记录
// @Tags Projects
// @Param pid path string true "作品 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.content.DeleteProject(c.Request.Context(), caller(c), dto.BindProjectID(c)); err != nil {
		respondError(c, "failed to delete project", err)
		return
	}
	dto.NoContent(c)
}
