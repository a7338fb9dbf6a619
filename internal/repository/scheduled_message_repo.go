package repository

import (
	"encoding/json"
	"time"

	"socialnet/internal/model"

	"gorm.io/gorm"
)

type ScheduledMessageRepository interface {
	Create(message *model.ScheduledMessage) error
	FindByID(id string) (*model.ScheduledMessage, error)
	FindBySenderID(userID string) ([]*model.ScheduledMessage, error)
	FindDueByRecipient(userID string, now time.Time) ([]*model.ScheduledMessage, error)
	FindUndeliveredDue(now time.Time, limit int) ([]*model.ScheduledMessage, error)
	MarkDelivered(id string) error
	Delete(id string) error
}

type scheduledMessageRepository struct {
	db *gorm.DB
}

func NewScheduledMessageRepository(db *gorm.DB) ScheduledMessageRepository {
	return &scheduledMessageRepository{db: db}
}

func (r *scheduledMessageRepository) Create(message *model.ScheduledMessage) error {
	return r.db.Create(message).Error
}

func (r *scheduledMessageRepository) FindByID(id string) (*model.ScheduledMessage, error) {
	var message model.ScheduledMessage
	err := r.db.Preload("User").
		Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *scheduledMessageRepository) FindBySenderID(userID string) ([]*model.ScheduledMessage, error) {
	var messages []*model.ScheduledMessage
	err := r.db.Where("user_id = ?", userID).
		Order("scheduled_time DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindDueByRecipient finds messages addressed to a user whose scheduled time
// has passed. Recipients are stored as a JSONB array, so containment is
// checked with the @> operator.
func (r *scheduledMessageRepository) FindDueByRecipient(userID string, now time.Time) ([]*model.ScheduledMessage, error) {
	recipientJSON, err := json.Marshal([]string{userID})
	if err != nil {
		return nil, err
	}

	var messages []*model.ScheduledMessage
	err = r.db.Preload("User").
		Where("recipients @> ? AND scheduled_time <= ?", string(recipientJSON), now).
		Order("scheduled_time DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindUndeliveredDue finds messages whose scheduled time has passed but that
// have not been pushed to their recipients yet.
func (r *scheduledMessageRepository) FindUndeliveredDue(now time.Time, limit int) ([]*model.ScheduledMessage, error) {
	var messages []*model.ScheduledMessage
	err := r.db.Where("delivered = ? AND scheduled_time <= ?", false, now).
		Order("scheduled_time ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkDelivered claims an undelivered message. The delivered guard makes
// the claim exclusive: when two workers race on the same row, only the
// first update matches and the loser sees not-found.
func (r *scheduledMessageRepository) MarkDelivered(id string) error {
	result := r.db.Model(&model.ScheduledMessage{}).
		Where("id = ? AND delivered = ?", id, false).
		Update("delivered", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduledMessageRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.ScheduledMessage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
