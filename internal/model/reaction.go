package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is a single-emoji response to a post or comment. One reaction per
// (user, target); the target is polymorphic like Comment's.
type Reaction struct {
	ID         string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_reaction_target,unique" json:"user_id"`
	TargetType string    `gorm:"type:varchar(20);not null;index:idx_reaction_target,unique" json:"target_type"` // post, comment
	TargetID   string    `gorm:"type:uuid;not null;index:idx_reaction_target,unique" json:"target_id"`
	Content    string    `gorm:"type:varchar(20);default:'like';not null" json:"content"` // like, love, haha, wow, sad, angry
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Reaction) TableName() string {
	return "reactions"
}

// Constants for reactions
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionHaha  = "haha"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// ValidReaction reports whether content is one of the allowed reactions.
func ValidReaction(content string) bool {
	switch content {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}
