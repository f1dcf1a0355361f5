package dto

import (
	"encoding/json"
	"time"

	"quilkalam-api/internal/application/content"
	"quilkalam-api/internal/domain/entity"
)

// PublishRequest 发布作品请求
type PublishRequest struct {
	Type            string               `json:"type" binding:"required,oneof=novel poetry shortStory manuscript"`
	Title           string               `json:"title" binding:"required,max=500"`
	Description     string               `json:"description"`
	Genre           string               `json:"genre"`
	AuthorName      string               `json:"authorName"`
	CoverImage      string               `json:"coverImage"`
	BackImage       string               `json:"backImage"`
	WordCount       int                  `json:"wordCount" binding:"gte=0"`
	ISBN            string               `json:"isbn"`
	Publisher       string               `json:"publisher"`
	PublicationDate *time.Time           `json:"publicationDate"`
	Price           *float64             `json:"price" binding:"omitempty,gte=0"`
	Language        string               `json:"language"`
	CopyrightText   string               `json:"copyrightText"`
	Categories      []string             `json:"categories"`
	Tags            []string             `json:"tags"`
	IsPublic        *bool                `json:"isPublic"`
	AllowComments   *bool                `json:"allowComments"`
	AllowDownloads  *bool                `json:"allowDownloads"`
	Items           []PublishItemRequest `json:"items" binding:"dive"`
}

// PublishItemRequest 发布时的章节
type PublishItemRequest struct {
	Ref          string         `json:"ref"`
	ParentRef    string         `json:"parentRef"`
	ParentItemID string         `json:"parentItemId"`
	ItemType     string         `json:"itemType" binding:"required"`
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	Content      string         `json:"content"`
	Metadata     map[string]any `json:"metadata"`
	OrderIndex   int            `json:"orderIndex"`
	DepthLevel   int            `json:"depthLevel" binding:"gte=0"`
	WordCount    int            `json:"wordCount" binding:"gte=0"`
}

// ToInput 转换为发布输入
func (r *PublishRequest) ToInput() content.PublishInput {
	items := make([]content.PublishItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = content.PublishItem{
			Ref:          it.Ref,
			ParentRef:    it.ParentRef,
			ParentItemID: it.ParentItemID,
			ItemType:     it.ItemType,
			Name:         it.Name,
			Description:  it.Description,
			Content:      it.Content,
			Metadata:     it.Metadata,
			OrderIndex:   it.OrderIndex,
			DepthLevel:   it.DepthLevel,
			WordCount:    it.WordCount,
		}
	}
	return content.PublishInput{
		Type:            entity.ProjectType(r.Type),
		Title:           r.Title,
		Description:     r.Description,
		Genre:           r.Genre,
		AuthorName:      r.AuthorName,
		CoverImage:      r.CoverImage,
		BackImage:       r.BackImage,
		WordCount:       r.WordCount,
		ISBN:            r.ISBN,
		Publisher:       r.Publisher,
		PublicationDate: r.PublicationDate,
		Price:           r.Price,
		Language:        r.Language,
		CopyrightText:   r.CopyrightText,
		Categories:      r.Categories,
		Tags:            r.Tags,
		IsPublic:        r.IsPublic,
		AllowComments:   r.AllowComments,
		AllowDownloads:  r.AllowDownloads,
		Items:           items,
	}
}

// UpdateProjectRequest 更新作品请求，缺省字段不修改
type UpdateProjectRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=500"`
	Description *string   `json:"description"`
	Genre       *string   `json:"genre"`
	CoverImage  *string   `json:"coverImage"`
	BackImage   *string   `json:"backImage"`
	Categories  *[]string `json:"categories"`
	Tags        *[]string `json:"tags"`
}

// ToPatch 转换为作品补丁
func (r *UpdateProjectRequest) ToPatch() content.ProjectPatch {
	return content.ProjectPatch{
		Title:       r.Title,
		Description: r.Description,
		Genre:       r.Genre,
		CoverImage:  r.CoverImage,
		BackImage:   r.BackImage,
		Categories:  r.Categories,
		Tags:        r.Tags,
	}
}

// ItemRequest 新增章节请求
type ItemRequest struct {
	ParentItemID *string        `json:"parentItemId"`
	ItemType     string         `json:"itemType"`
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	Content      string         `json:"content"`
	Metadata     map[string]any `json:"metadata"`
	OrderIndex   int            `json:"orderIndex"`
}

// ToInput 转换为章节输入
func (r *ItemRequest) ToInput() content.ItemInput {
	return content.ItemInput{
		ParentItemID: r.ParentItemID,
		ItemType:     r.ItemType,
		Name:         r.Name,
		Description:  r.Description,
		Content:      r.Content,
		Metadata:     r.Metadata,
		OrderIndex:   r.OrderIndex,
	}
}

// BatchItemsRequest 批量新增章节请求
type BatchItemsRequest struct {
	Chapters []ItemRequest `json:"chapters" binding:"required,min=1,dive"`
}

// ItemPatchRequest 章节更新请求
type ItemPatchRequest struct {
	ID            string          `json:"id"`
	Name          *string         `json:"name"`
	Description   *string         `json:"description"`
	Content       *string         `json:"content"`
	Metadata      map[string]any  `json:"metadata"`
	MetadataPatch json.RawMessage `json:"metadataPatch"`
	OrderIndex    *int            `json:"orderIndex"`
}

// ToPatch 转换为章节补丁
func (r *ItemPatchRequest) ToPatch() content.ItemPatch {
	return content.ItemPatch{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Content:       r.Content,
		Metadata:      r.Metadata,
		MetadataPatch: r.MetadataPatch,
		OrderIndex:    r.OrderIndex,
	}
}

// BatchUpdateItemsRequest 批量更新章节请求
type BatchUpdateItemsRequest struct {
	Updates []ItemPatchRequest `json:"updates" binding:"required,min=1"`
}

// PublishResponse 发布响应
type PublishResponse struct {
	ProjectID   string    `json:"project_id"`
	PublishedAt time.Time `json:"published_at"`
}

// ProjectDetailResponse 作品详情响应
type ProjectDetailResponse struct {
	Project *entity.ProjectView `json:"project"`
	Items   []*entity.Item      `json:"items"`
}

// ItemListResponse 章节列表响应
type ItemListResponse struct {
	Chapters []*entity.Item `json:"chapters"`
}
