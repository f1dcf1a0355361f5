package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultItemType 默认条目类型
const DefaultItemType = "chapter"

// Item 作品内容树节点（扁平存储，父引用 + 反规范化深度）
type Item struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID    string         `json:"project_id" gorm:"type:uuid;not null;index:idx_published_items_project"`
	Project      *Project       `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ParentItemID *string        `json:"parent_item_id" gorm:"type:uuid;index"`
	Parent       *Item          `json:"-" gorm:"foreignKey:ParentItemID;constraint:OnDelete:CASCADE"`
	ItemType     string         `json:"item_type" gorm:"type:text;not null"`
	Name         string         `json:"name" gorm:"type:text;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Content      string         `json:"content" gorm:"type:text"`
	Metadata     map[string]any `json:"metadata" gorm:"type:jsonb;serializer:json"`
	OrderIndex   int            `json:"order_index" gorm:"not null;default:0"`
	DepthLevel   int            `json:"depth_level" gorm:"not null;default:0"`
	WordCount    int            `json:"word_count" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Item) TableName() string {
	return "published_items"
}

// BeforeCreate 生成主键
func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}

// IsRoot 是否为根节点
func (i *Item) IsRoot() bool {
	return i.ParentItemID == nil
}

// CountWords 按连续空白切分统计词数，忽略空片段
func CountWords(content string) int {
	return len(strings.Fields(content))
}
