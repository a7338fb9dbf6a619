package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment targets either a post or another comment. The target is polymorphic
// (target_type + target_id), so there is no foreign key constraint on
// target_id; resolution happens in the service layer.
type Comment struct {
	ID         string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     string         `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	TargetType string         `gorm:"type:varchar(20);not null;index:idx_comment_target" json:"target_type"` // post, comment
	TargetID   string         `gorm:"type:uuid;not null;index:idx_comment_target" json:"target_id"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Comment) TableName() string {
	return "comments"
}

// Constants for target types
const (
	TargetTypePost    = "post"
	TargetTypeComment = "comment"
)
