package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type AnnouncementService interface {
	CreateAnnouncement(userID, body string) (*model.Announcement, error)
	GetAnnouncementsByUserID(userID string, limit, offset int) ([]*model.Announcement, error)
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, userRepo repository.UserRepository) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
	}
}

func (s *announcementService) CreateAnnouncement(userID, body string) (*model.Announcement, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	announcement := &model.Announcement{
		UserID: userID,
		Body:   body,
	}

	if err := s.announcementRepo.Create(announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	return announcement, nil
}

func (s *announcementService) GetAnnouncementsByUserID(userID string, limit, offset int) ([]*model.Announcement, error) {
	return s.announcementRepo.FindByUserID(userID, limit, offset)
}
