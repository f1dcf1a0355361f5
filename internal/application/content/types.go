package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quilkalam-api/internal/domain/entity"
	apperrors "quilkalam-api/pkg/errors"
)

// PublishInput 发布作品输入
type PublishInput struct {
	Type            entity.ProjectType
	Title           string
	Description     string
	Genre           string
	AuthorName      string
	CoverImage      string
	BackImage       string
	WordCount       int
	ISBN            string
	Publisher       string
	PublicationDate *time.Time
	Price           *float64
	Language        string
	CopyrightText   string
	Categories      []string
	Tags            []string
	IsPublic        *bool
	AllowComments   *bool
	AllowDownloads  *bool
	Items           []PublishItem
}

// PublishItem 发布时的章节，Ref/ParentRef 为客户端引用
type PublishItem struct {
	Ref       string
	ParentRef string
	// ParentItemID 兼容旧客户端，语义同 ParentRef
	ParentItemID string
	ItemType     string
	Name         string
	Description  string
	Content      string
	Metadata     map[string]any
	OrderIndex   int
	DepthLevel   int
	WordCount    int
}

func (i PublishItem) parentRef() string {
	if i.ParentRef != "" {
		return i.ParentRef
	}
	return i.ParentItemID
}

// PublishResult 发布结果
type PublishResult struct {
	ProjectID   string    `json:"project_id"`
	PublishedAt time.Time `json:"published_at"`
}

func (in *PublishInput) validate() error {
	if !in.Type.Valid() {
		return apperrors.Validation("type must be one of novel, poetry, shortStory, manuscript")
	}
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.Validation("title is required")
	}
	if in.WordCount < 0 {
		return apperrors.Validation("wordCount must not be negative")
	}
	if in.Price != nil && *in.Price < 0 {
		return apperrors.Validation("price must not be negative")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ItemType) == "" {
			return apperrors.Validation(fmt.Sprintf("items[%d].itemType is required", i))
		}
		if strings.TrimSpace(item.Name) == "" {
			return apperrors.Validation(fmt.Sprintf("items[%d].name is required", i))
		}
	}
	return nil
}

// ItemInput 新增章节输入
type ItemInput struct {
	ParentItemID *string
	ItemType     string
	Name         string
	Description  string
	Content      string
	Metadata     map[string]any
	OrderIndex   int
}

func (in *ItemInput) normalize(index int) error {
	if strings.TrimSpace(in.Name) == "" {
		if index < 0 {
			return apperrors.Validation("name is required")
		}
		return apperrors.Validation(fmt.Sprintf("items[%d].name is required", index))
	}
	if strings.TrimSpace(in.ItemType) == "" {
		in.ItemType = entity.DefaultItemType
	}
	return nil
}

// ItemPatch 章节稀疏更新，nil 表示不修改
type ItemPatch struct {
	// ID 批量更新时指定目标章节
	ID          string
	Name        *string
	Description *string
	Content     *string
	// Metadata 整体替换元数据
	Metadata map[string]any
	// MetadataPatch 以 RFC 6902 JSON Patch 修改现有元数据
	MetadataPatch json.RawMessage
	OrderIndex    *int
}

// hasMetadataPatch 是否携带元数据补丁
func (p ItemPatch) hasMetadataPatch() bool {
	return len(p.MetadataPatch) > 0 && string(p.MetadataPatch) != "null"
}

// ProjectPatch 作品元数据稀疏更新
type ProjectPatch struct {
	Title       *string
	Description *string
	Genre       *string
	CoverImage  *string
	BackImage   *string
	Categories  *[]string
	Tags        *[]string
}

// ProjectDetail 作品详情
type ProjectDetail struct {
	Project *entity.ProjectView `json:"project"`
	Items   []*entity.Item      `json:"items"`
}

// ListQuery 作品列表查询
type ListQuery struct {
	Type     entity.ProjectType
	Genre    string
	UserID   string
	Search   string
	Page     int
	PageSize int
}
