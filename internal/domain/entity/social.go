package entity

import (
	"time"

	"gorm.io/gorm"
)

// Like 点赞，(project_id, user_id) 唯一，行存在即为已点赞
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID string    `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_project_user,priority:1;index:idx_likes_project"`
	Project   *Project  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_project_user,priority:2"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Like) TableName() string {
	return "likes"
}

// BeforeCreate 生成主键
func (l *Like) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = newID()
	}
	return nil
}

// Follow 关注关系，(follower_id, following_id) 唯一
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID string    `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index:idx_follows_following"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Follow) TableName() string {
	return "follows"
}

// BeforeCreate 生成主键
func (f *Follow) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = newID()
	}
	return nil
}

// Comment 评论，可通过 parent_comment_id 形成楼中楼
type Comment struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID       string    `json:"project_id" gorm:"type:uuid;not null;index:idx_comments_project"`
	Project         *Project  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	UserID          string    `json:"user_id" gorm:"type:uuid;not null"`
	User            *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ParentCommentID *string   `json:"parent_comment_id" gorm:"type:uuid"`
	Parent          *Comment  `json:"-" gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	IsEdited        bool      `json:"is_edited" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate 生成主键
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

// CommentView 评论与作者信息
type CommentView struct {
	Comment         `gorm:"embedded"`
	DisplayName     string `json:"display_name" gorm:"column:display_name"`
	ProfileImageURL string `json:"profile_image_url" gorm:"column:profile_image_url"`
}
