package service

import (
	"fmt"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type ScheduledMessageService interface {
	ScheduleMessage(userID string, recipients []string, scheduledTime time.Time, title, body string) (*model.ScheduledMessage, error)
	GetScheduledMessages(userID string) ([]*model.ScheduledMessage, error)
	GetReceivedMessages(userID string) ([]*model.ScheduledMessage, error)
	DeleteScheduledMessage(messageID, userID string) error
}

type scheduledMessageService struct {
	messageRepo    repository.ScheduledMessageRepository
	friendshipRepo repository.FriendshipRepository
	moderation     ModerationService
}

func NewScheduledMessageService(
	messageRepo repository.ScheduledMessageRepository,
	friendshipRepo repository.FriendshipRepository,
	moderation ModerationService,
) ScheduledMessageService {
	return &scheduledMessageService{
		messageRepo:    messageRepo,
		friendshipRepo: friendshipRepo,
		moderation:     moderation,
	}
}

// ScheduleMessage stores a message for later delivery. Every recipient must
// currently be a friend of the sender and the scheduled time must be in the
// future; the message is validated before anything is persisted.
func (s *scheduledMessageService) ScheduleMessage(userID string, recipients []string, scheduledTime time.Time, title, body string) (*model.ScheduledMessage, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrNotFound)
	}
	if !scheduledTime.After(time.Now()) {
		return nil, ErrPastScheduleTime
	}

	for _, recipientID := range recipients {
		if recipientID == userID {
			return nil, fmt.Errorf("%w: cannot schedule a message to yourself", ErrSelfRequest)
		}
		friends, err := s.friendshipRepo.AreFriends(userID, recipientID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependency, err)
		}
		if !friends {
			return nil, fmt.Errorf("%w: recipient %s is not a friend", ErrNotAuthorized, recipientID)
		}
	}

	if err := s.moderation.CheckText(userID, title+" "+body); err != nil {
		return nil, err
	}

	message := &model.ScheduledMessage{
		UserID:        userID,
		ScheduledTime: scheduledTime,
		Title:         title,
		Body:          body,
	}
	if err := message.SetRecipients(recipients); err != nil {
		return nil, fmt.Errorf("failed to encode recipients: %w", err)
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create scheduled message: %w", err)
	}

	return message, nil
}

func (s *scheduledMessageService) GetScheduledMessages(userID string) ([]*model.ScheduledMessage, error) {
	return s.messageRepo.FindBySenderID(userID)
}

// GetReceivedMessages returns messages addressed to the user whose scheduled
// time has already passed. Undelivered future messages stay hidden.
func (s *scheduledMessageService) GetReceivedMessages(userID string) ([]*model.ScheduledMessage, error) {
	return s.messageRepo.FindDueByRecipient(userID, time.Now())
}

func (s *scheduledMessageService) DeleteScheduledMessage(messageID, userID string) error {
	message, err := s.messageRepo.FindByID(messageID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: scheduled message %s", ErrNotFound, messageID)
	}
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return fmt.Errorf("%w: scheduled message %s does not belong to user %s", ErrNotAuthorized, messageID, userID)
	}
	return s.messageRepo.Delete(messageID)
}
