// Package entity 定义领域实体
package entity

import (
	"time"

	"gorm.io/gorm"
)

// ProjectType 作品类型
type ProjectType string

const (
	ProjectTypeNovel      ProjectType = "novel"
	ProjectTypePoetry     ProjectType = "poetry"
	ProjectTypeShortStory ProjectType = "shortStory"
	ProjectTypeManuscript ProjectType = "manuscript"
)

// Valid 检查类型是否合法
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeNovel, ProjectTypePoetry, ProjectTypeShortStory, ProjectTypeManuscript:
		return true
	}
	return false
}

// ProjectStatus 作品状态
type ProjectStatus string

const (
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusDraft     ProjectStatus = "draft"
)

// Project 已发布作品实体
type Project struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID string `json:"user_id" gorm:"type:uuid;not null;index:idx_published_projects_user"`
	User   *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Type          ProjectType `json:"type" gorm:"type:text;not null"`
	Title         string      `json:"title" gorm:"type:text;not null"`
	Description   string      `json:"description" gorm:"type:text"`
	Genre         string      `json:"genre" gorm:"type:text"`
	AuthorName    string      `json:"author_name" gorm:"type:text"`
	CoverImageURL string      `json:"cover_image_url" gorm:"type:text"`
	BackImageURL  string      `json:"back_image_url" gorm:"type:text"`
	WordCount     int         `json:"word_count" gorm:"not null;default:0"`

	ISBN            string     `json:"isbn" gorm:"column:isbn;type:text"`
	Publisher       string     `json:"publisher" gorm:"type:text"`
	PublicationDate *time.Time `json:"publication_date"`
	Price           *float64   `json:"price" gorm:"type:numeric(10,2)"`
	Language        string     `json:"language" gorm:"type:text;default:'en'"`
	CopyrightText   string     `json:"copyright_text" gorm:"type:text"`
	Categories      StringList `json:"categories"`
	Tags            StringList `json:"tags"`

	IsPublic       bool `json:"is_public" gorm:"not null;default:true;index:idx_published_projects_public,where:is_public = true"`
	AllowComments  bool `json:"allow_comments" gorm:"not null;default:true"`
	AllowDownloads bool `json:"allow_downloads" gorm:"not null;default:false"`

	ViewCount     int `json:"view_count" gorm:"not null;default:0"`
	DownloadCount int `json:"download_count" gorm:"not null;default:0"`
	LikeCount     int `json:"like_count" gorm:"not null;default:0"`
	CommentCount  int `json:"comment_count" gorm:"not null;default:0"`

	Status      ProjectStatus `json:"status" gorm:"type:text;not null;default:'published'"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	PublishedAt time.Time     `json:"published_at"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "published_projects"
}

// BeforeCreate 生成主键并补齐发布时间
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}
	return nil
}

// NewProject 创建已发布作品
func NewProject(userID string, projectType ProjectType, title string) *Project {
	now := time.Now()
	return &Project{
		UserID:        userID,
		Type:          projectType,
		Title:         title,
		Language:      "en",
		IsPublic:      true,
		AllowComments: true,
		Status:        ProjectStatusPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
		PublishedAt:   now,
	}
}

// IsOwnedBy 检查归属
func (p *Project) IsOwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}

// IsReadable 公开且已发布的作品可被任何人读取
func (p *Project) IsReadable() bool {
	return p.IsPublic && p.Status == ProjectStatusPublished
}

// AuthorSnapshot 作者信息快照（读取时反规范化）
type AuthorSnapshot struct {
	AuthorDisplayName  string `json:"author_display_name" gorm:"column:author_display_name"`
	AuthorProfileImage string `json:"author_profile_image" gorm:"column:author_profile_image"`
	AuthorBio          string `json:"author_bio,omitempty" gorm:"column:author_bio"`
}

// ProjectView 作品与作者快照
type ProjectView struct {
	Project        `gorm:"embedded"`
	AuthorSnapshot `gorm:"embedded"`
}
