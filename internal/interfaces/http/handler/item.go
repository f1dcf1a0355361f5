package handler

import (
	"github.com/gin-gonic/gin"

	"quilkalam-api/internal/application/content"
	"quilkalam-api/internal/interfaces/http/dto"
)

// ItemHandler 章节处理器
type ItemHandler struct {
	content *content.Service
}

// NewItemHandler 创建章节处理器
func NewItemHandler(svc *content.Service) *ItemHandler {
	return &ItemHandler{content: svc}
}

// ListItems 列出作品章节
// @Summary 列出章节
// @Tags Items
// @Produce json
// @Param pid path string true "作品 ID"
// @Success 200 {object} dto.Response[dto.ItemListResponse]
// @Router /v1/projects/{pid}/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.content.ListItems(c.Request.Context(), caller(c), dto.BindProjectID(c))
	if err != nil {
		respondError(c, "failed to list items", err)
		return
	}
	dto.Success(c, &dto.ItemListResponse{Chapters: items})
}

// GetItem 获取单个章节
// @Summary 获取章节
// @Tags Items
// @Produce json
// @Param pid path string true "作品 ID"
// @Param iid path string true "章节 ID"
// @Success 200 {object} dto.Response[entity.Item]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/items/{iid} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.content.GetItem(c.Request.Context(), caller(c), dto.BindProjectID(c), dto.BindItemID(c))
	if err != nil {
		respondError(c, "failed to get item", err)
		return
	}
	dto.Success(c, item)
}

// AddItem 新增章节
// @Summary 新增章节
// @Tags Items
// @Accept json
// @Produce json
// @Param pid path string true "作品 ID"
// @Param body body dto.ItemRequest true "章节"
// @Success 201 {object} dto.Response[entity.Item]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/items [post]
func (h *ItemHandler) AddItem(c *gin.Context) {
	var req dto.ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.content.AddItem(c.Request.Context(), caller(c), dto.BindProjectID(c), req.ToInput())
	if err != nil {
		respondError(c, "failed to add item", err)
		return
	}
	dto.Created(c, item)
}

// AddItems 批量新增章节
// @Summary 批量新增章节
// @Tags Items
// @Accept json
// @Produce json
// @Param pid path string true "作品 ID"
// @Param body body dto.BatchItemsRequest true "章节列表"
// @Success 201 {object} dto.Response[dto.ItemListResponse]
// @Router /v1/projects/{pid}/items/batch [post]
func (h *ItemHandler) AddItems(c *gin.Context) {
	var req dto.BatchItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	inputs := make([]content.ItemInput, len(req.Chapters))
	for i := range req.Chapters {
		inputs[i] = req.Chapters[i].ToInput()
	}
	items, err := h.content.AddItems(c.Request.Context(), caller(c), dto.BindProjectID(c), inputs)
	if err != nil {
		respondError(c, "failed to add items", err)
		return
	}
	dto.Created(c, &dto.ItemListResponse{Chapters: items})
}

// UpdateItem 更新章节
// @Summary 更新章节
// @Description 稀疏更新，content 变化时重算字数，metadataPatch 为 JSON Patch 文档
// @Tags Items
// @Accept json
// @Produce json
// @Param pid path string true "作品 ID"
// @Param iid path string true "章节 ID"
// @Param body body dto.ItemPatchRequest true "更新内容"
// @Success 200 {object} dto.Response[entity.Item]
// @Router /v1/projects/{pid}/items/{iid} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req dto.ItemPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.content.UpdateItem(c.Request.Context(), caller(c), dto.BindProjectID(c), dto.BindItemID(c), req.ToPatch())
	if err != nil {
		respondError(c, "failed to update item", err)
		return
	}
	dto.Success(c, item)
}

// UpdateItems 批量更新章节
// @Summary 批量更新章节
// @Tags Items
// @Accept json
// @Produce json
// @Param pid path string true "作品 ID"
// @Param body body dto.BatchUpdateItemsRequest true "更新列表"
// @Success 200 {object} dto.Response[dto.ItemListResponse]
// @Router /v1/projects/{pid}/items/batch [put]
func (h *ItemHandler) UpdateItems(c *gin.Context) {
	var req dto.BatchUpdateItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	patches := make([]content.ItemPatch, len(req.Updates))
	for i := range req.Updates {
		patches[i] = req.Updates[i].ToPatch()
	}
	items, err := h.content.UpdateItems(c.Request.Context(), caller(c), dto.BindProjectID(c), patches)
	if err != nil {
		respondError(c, "failed to update items", err)
		return
	}
	dto.Success(c, &dto.ItemListResponse{Chapters: items})
}

// DeleteItem 删除章节
// @Summary 删除章节
// @Tags Items
// @Param pid path string true "作品 ID"
// @Param iid path string true "章节 ID"
// @Success 204
// @Router /v1/projects/{pid}/items/{iid} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.content.DeleteItem(c.Request.Context(), caller(c), dto.BindProjectID(c), dto.BindItemID(c)); err != nil {
		respondError(c, "failed to delete item", err)
		return
	}
	dto.NoContent(c)
}
