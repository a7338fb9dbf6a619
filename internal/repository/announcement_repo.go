package repository

import (
	"socialnet/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *model.Announcement) error
	FindByUserID(userID string, limit, offset int) ([]*model.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *model.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) FindByUserID(userID string, limit, offset int) ([]*model.Announcement, error) {
	var announcements []*model.Announcement
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&announcements).Error
	if err != nil {
		return nil, err
	}
	return announcements, nil
}
