package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recap is an immutable summary of how much a user engaged with each of
// their friends inside a time window. A new recap supersedes the old one for
// presentation but history is retained; records are never updated in place.
type Recap struct {
	ID          string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	WindowStart time.Time `gorm:"type:timestamp;not null" json:"window_start"`
	WindowEnd   time.Time `gorm:"type:timestamp;not null" json:"window_end"`

	ContentCount  int `gorm:"not null;default:0" json:"content_count"`
	CommentCount  int `gorm:"not null;default:0" json:"comment_count"`
	ReactionCount int `gorm:"not null;default:0" json:"reaction_count"`

	// Interactions maps friend ID -> interaction count, stored as JSON.
	Interactions string `gorm:"type:jsonb" json:"-"`
	// MostInteracted / LeastInteracted hold up to 3 friend IDs each, stored
	// as JSON arrays.
	MostInteracted  string `gorm:"type:jsonb" json:"-"`
	LeastInteracted string `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Recap) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Recap) TableName() string {
	return "recaps"
}

// GetInteractions returns the interaction counts keyed by friend ID.
func (r *Recap) GetInteractions() map[string]int {
	counts := map[string]int{}
	if r.Interactions == "" {
		return counts
	}
	if err := json.Unmarshal([]byte(r.Interactions), &counts); err != nil {
		return map[string]int{}
	}
	return counts
}

// SetInteractions stores the interaction counts as JSON.
func (r *Recap) SetInteractions(counts map[string]int) error {
	if counts == nil {
		counts = map[string]int{}
	}
	bytes, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	r.Interactions = string(bytes)
	return nil
}

// GetMostInteracted returns the ranked most-interacted friend IDs.
func (r *Recap) GetMostInteracted() []string {
	return decodeIDList(r.MostInteracted)
}

// SetMostInteracted stores the ranked most-interacted friend IDs as JSON.
func (r *Recap) SetMostInteracted(ids []string) error {
	encoded, err := encodeIDList(ids)
	if err != nil {
		return err
	}
	r.MostInteracted = encoded
	return nil
}

// GetLeastInteracted returns the ranked least-interacted friend IDs.
func (r *Recap) GetLeastInteracted() []string {
	return decodeIDList(r.LeastInteracted)
}

// SetLeastInteracted stores the ranked least-interacted friend IDs as JSON.
func (r *Recap) SetLeastInteracted(ids []string) error {
	encoded, err := encodeIDList(ids)
	if err != nil {
		return err
	}
	r.LeastInteracted = encoded
	return nil
}

// MarshalJSON exposes the JSON columns as structured fields.
func (r *Recap) MarshalJSON() ([]byte, error) {
	type Alias Recap
	aux := &struct {
		Interactions    map[string]int `json:"interactions"`
		MostInteracted  []string       `json:"most_interacted_with"`
		LeastInteracted []string       `json:"least_interacted_with"`
		*Alias
	}{
		Interactions:    r.GetInteractions(),
		MostInteracted:  r.GetMostInteracted(),
		LeastInteracted: r.GetLeastInteracted(),
		Alias:           (*Alias)(r),
	}
	return json.Marshal(aux)
}

// UnmarshalJSON accepts the structured form produced by MarshalJSON and
// re-encodes the map and rankings into the JSON columns.
func (r *Recap) UnmarshalJSON(data []byte) error {
	type Alias Recap
	aux := &struct {
		Interactions    map[string]int `json:"interactions"`
		MostInteracted  []string       `json:"most_interacted_with"`
		LeastInteracted []string       `json:"least_interacted_with"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if err := r.SetInteractions(aux.Interactions); err != nil {
		return err
	}
	if err := r.SetMostInteracted(aux.MostInteracted); err != nil {
		return err
	}
	return r.SetLeastInteracted(aux.LeastInteracted)
}

func encodeIDList(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	bytes, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func decodeIDList(encoded string) []string {
	if encoded == "" || encoded == "[]" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return []string{}
	}
	return ids
}
