package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduledMessage is a message addressed to a set of friends that becomes
// visible to them once ScheduledTime has passed.
type ScheduledMessage struct {
	ID            string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	Recipients    string    `gorm:"type:jsonb;not null" json:"-"` // Array of user IDs stored as JSON
	ScheduledTime time.Time `gorm:"type:timestamp;not null;index" json:"scheduled_time"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	Delivered     bool      `gorm:"default:false;index" json:"delivered"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *ScheduledMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ScheduledMessage) TableName() string {
	return "scheduled_messages"
}

// GetRecipients returns Recipients as a slice of user IDs
func (m *ScheduledMessage) GetRecipients() []string {
	if m.Recipients == "" || m.Recipients == "[]" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.Recipients), &ids); err != nil {
		return []string{}
	}
	return ids
}

// SetRecipients sets Recipients from a slice of user IDs
func (m *ScheduledMessage) SetRecipients(ids []string) error {
	if len(ids) == 0 {
		m.Recipients = "[]"
		return nil
	}
	bytes, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	m.Recipients = string(bytes)
	return nil
}

// MarshalJSON exposes the recipients JSON column as an array field.
func (m *ScheduledMessage) MarshalJSON() ([]byte, error) {
	type Alias ScheduledMessage
	aux := &struct {
		Recipients []string `json:"recipients"`
		*Alias
	}{
		Recipients: m.GetRecipients(),
		Alias:      (*Alias)(m),
	}
	return json.Marshal(aux)
}
