package entity

import (
	"time"

	"gorm.io/gorm"
)

// ReadingHistory 阅读进度，(user_id, project_id) 唯一
type ReadingHistory struct {
	ID                 string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reading_history_user_project,priority:1;index:idx_reading_history_user"`
	User               *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ProjectID          string    `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_reading_history_user_project,priority:2"`
	Project            *Project  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	LastReadItemID     *string   `json:"last_read_item_id" gorm:"type:uuid"`
	LastReadItem       *Item     `json:"-" gorm:"foreignKey:LastReadItemID;constraint:OnDelete:SET NULL"`
	ProgressPercentage float64   `json:"progress_percentage" gorm:"type:numeric(5,2);not null;default:0"`
	LastReadAt         time.Time `json:"last_read_at"`
}

// TableName 指定表名
func (ReadingHistory) TableName() string {
	return "reading_history"
}

// BeforeCreate 生成主键
func (h *ReadingHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = newID()
	}
	if h.LastReadAt.IsZero() {
		h.LastReadAt = time.Now()
	}
	return nil
}

// ValidProgress 进度必须在 0 到 100 之间
func ValidProgress(p float64) bool {
	return p >= 0 && p <= 100
}

// ReadingHistoryView 阅读记录与作品摘要
type ReadingHistoryView struct {
	ReadingHistory `gorm:"embedded"`
	Title          string      `json:"title" gorm:"column:title"`
	CoverImageURL  string      `json:"cover_image_url" gorm:"column:cover_image_url"`
	BackImageURL   string      `json:"back_image_url" gorm:"column:back_image_url"`
	Type           ProjectType `json:"type" gorm:"column:type"`
	AuthorName     string      `json:"author_name" gorm:"column:author_name"`
}
