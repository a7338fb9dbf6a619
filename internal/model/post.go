package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ImageURLs string         `gorm:"type:jsonb" json:"image_urls,omitempty"` // Array of image URLs stored as JSON
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Tags []PostTag `gorm:"foreignKey:PostID;references:ID" json:"tags,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Post) TableName() string {
	return "posts"
}

// GetImageURLs returns ImageURLs as a slice of strings
func (p *Post) GetImageURLs() []string {
	if p.ImageURLs == "" || p.ImageURLs == "[]" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(p.ImageURLs), &urls); err != nil {
		return []string{}
	}
	return urls
}

// SetImageURLs sets ImageURLs from a slice of strings
func (p *Post) SetImageURLs(urls []string) error {
	if len(urls) == 0 {
		// Use empty JSON array instead of empty string for PostgreSQL JSONB
		p.ImageURLs = "[]"
		return nil
	}
	bytes, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	p.ImageURLs = string(bytes)
	return nil
}

// TaggedUserIDs returns the identities tagged in the post.
func (p *Post) TaggedUserIDs() []string {
	ids := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.TaggedUserID)
	}
	return ids
}

// PostTag represents a tagged user in a post
type PostTag struct {
	ID           string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PostID       string    `gorm:"type:uuid;not null;index:idx_post_tag,unique;references:posts(id)" json:"post_id"`
	TaggedUserID string    `gorm:"type:uuid;not null;index:idx_post_tag,unique;references:users(id)" json:"tagged_user_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	TaggedUser User `gorm:"foreignKey:TaggedUserID;references:ID" json:"tagged_user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (pt *PostTag) BeforeCreate(tx *gorm.DB) error {
	if pt.ID == "" {
		pt.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (PostTag) TableName() string {
	return "post_tags"
}
