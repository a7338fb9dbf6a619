package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationRecord keeps the result of a flag-word analysis run against a
// piece of text before it was published.
type ModerationRecord struct {
	ID               string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"type:uuid;not null;index" json:"user_id"`
	AnalyzedText     string    `gorm:"type:text;not null" json:"analyzed_text"`
	FlaggedWordCount int       `gorm:"not null;default:0" json:"flagged_word_count"`
	Rejected         bool      `gorm:"default:false" json:"rejected"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate hook to generate UUID
func (m *ModerationRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ModerationRecord) TableName() string {
	return "moderation_records"
}
