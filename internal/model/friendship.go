package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRequest is the directed request record. Direction matters: only the
// receiver may accept or reject, only the sender may withdraw. Terminal
// records (accepted, rejected) are kept as history; the accepted record is
// deleted together with its edge when the friendship is removed, which lets
// the pair start over with a fresh request.
type FriendRequest struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FromID    string    `gorm:"type:uuid;not null;index:idx_request_pair" json:"from_id"`
	ToID      string    `gorm:"type:uuid;not null;index:idx_request_pair" json:"to_id"`
	Status    string    `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"` // pending, accepted, rejected
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	From User `gorm:"foreignKey:FromID;references:ID" json:"from,omitempty"`
	To   User `gorm:"foreignKey:ToID;references:ID" json:"to,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendRequest status constants
const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
	FriendRequestStatusRejected = "rejected"
)

// FriendEdge is the undirected friendship projection, keyed by the ordered
// pair (UserAID < UserBID). It is created in the same transaction as the
// pending→accepted transition and deleted in the same transaction as the
// accepted record on removal, so friendship is never inferred by scanning
// request history.
type FriendEdge struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserAID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_a_id"`
	UserBID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair" json:"user_b_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate hook to generate UUID and normalize the pair ordering
func (e *FriendEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.UserAID, e.UserBID = NormalizePair(e.UserAID, e.UserBID)
	return nil
}

// TableName specifies the table name
func (FriendEdge) TableName() string {
	return "friend_edges"
}

// NormalizePair orders two identity references so an unordered pair always
// maps to the same (a, b) key.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
