package repository

import (
	"socialnet/internal/model"

	"gorm.io/gorm"
)

type ModerationRepository interface {
	Create(record *model.ModerationRecord) error
	FindByUserID(userID string, limit, offset int) ([]*model.ModerationRecord, error)
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) Create(record *model.ModerationRecord) error {
	return r.db.Create(record).Error
}

func (r *moderationRepository) FindByUserID(userID string, limit, offset int) ([]*model.ModerationRecord, error) {
	var records []*model.ModerationRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
