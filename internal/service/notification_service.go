package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/repository"
	"socialnet/internal/util"
)

type NotificationService interface {
	SendFriendRequestNotification(receiverID, senderID, senderName, requestID string) error
	SendFriendAcceptedNotification(receiverID, senderID, senderName, requestID string) error
	SendFriendRejectedNotification(receiverID, senderID, senderName, requestID string) error
	SendFriendRemovedNotification(receiverID, senderID, senderName string) error
	SendRecapReadyNotification(userID, recapID string) error
	SendScheduledMessageNotification(receiverID, senderID, messageID, title string) error
	GetNotificationsByUserID(userID string, limit, offset int) ([]*model.Notification, error)
	GetUnreadNotifications(userID string) ([]*model.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(notificationID, userID string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(notificationID, userID string) error
	SetWSHub(hub interface {
		BroadcastToUser(string, map[string]interface{})
	})
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	rabbitMQ  *util.RabbitMQClient
	wsHub     interface {
		BroadcastToUser(string, map[string]interface{})
	}
}

// NotificationMessage represents the message structure for RabbitMQ
type NotificationMessage struct {
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notification_exchange"
	NotificationRoutingKey = "notification"
)

func NewNotificationService(notifRepo repository.NotificationRepository, rabbitMQ *util.RabbitMQClient) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		rabbitMQ:  rabbitMQ,
		wsHub:     nil, // Will be set via SetWSHub
	}
}

// SetWSHub sets the WebSocket hub for realtime notifications
func (s *notificationService) SetWSHub(hub interface {
	BroadcastToUser(string, map[string]interface{})
}) {
	s.wsHub = hub
}

// sendNotification saves the notification and publishes it to RabbitMQ,
// falling back to a direct WebSocket push when publishing is unavailable.
func (s *notificationService) sendNotification(
	userID, notifType, title, message string,
	data map[string]interface{},
) error {
	notification := &model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		IsRead:  false,
	}

	if data != nil {
		if senderID, ok := data["sender_id"].(string); ok {
			notification.SenderID = &senderID
		}
		if targetID, ok := data["target_id"].(string); ok {
			notification.TargetID = &targetID
		}

		dataJSON, err := json.Marshal(data)
		if err == nil {
			notification.Data = string(dataJSON)
		}
	}

	if err := s.notifRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	// Publish to RabbitMQ; the worker pushes consumed messages to connected
	// clients on every instance
	if s.rabbitMQ != nil {
		msg := NotificationMessage{
			UserID:    userID,
			Type:      notifType,
			Title:     title,
			Message:   message,
			Data:      data,
			Timestamp: time.Now(),
		}

		msgJSON, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Failed to marshal notification message: %v", err)
		} else if err := s.rabbitMQ.Publish(NotificationExchange, NotificationRoutingKey, msgJSON); err == nil {
			return nil
		} else {
			log.Printf("Failed to publish notification: %v", err)
		}
	}

	// Without RabbitMQ, push to locally connected clients directly
	if s.wsHub != nil {
		s.wsHub.BroadcastToUser(userID, map[string]interface{}{
			"type":    notifType,
			"title":   title,
			"message": message,
			"data":    data,
		})
	}

	return nil
}

func (s *notificationService) SendFriendRequestNotification(receiverID, senderID, senderName, requestID string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeFriendRequest,
		"New friend request",
		fmt.Sprintf("%s sent you a friend request", senderName),
		map[string]interface{}{
			"sender_id": senderID,
			"target_id": requestID,
		},
	)
}

func (s *notificationService) SendFriendAcceptedNotification(receiverID, senderID, senderName, requestID string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeFriendAccepted,
		"Friend request accepted",
		fmt.Sprintf("%s accepted your friend request", senderName),
		map[string]interface{}{
			"sender_id": senderID,
			"target_id": requestID,
		},
	)
}

func (s *notificationService) SendFriendRejectedNotification(receiverID, senderID, senderName, requestID string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeFriendRejected,
		"Friend request declined",
		fmt.Sprintf("%s declined your friend request", senderName),
		map[string]interface{}{
			"sender_id": senderID,
			"target_id": requestID,
		},
	)
}

func (s *notificationService) SendFriendRemovedNotification(receiverID, senderID, senderName string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeFriendRemoved,
		"Friend removed",
		fmt.Sprintf("%s removed you as a friend", senderName),
		map[string]interface{}{
			"sender_id": senderID,
		},
	)
}

func (s *notificationService) SendRecapReadyNotification(userID, recapID string) error {
	return s.sendNotification(
		userID,
		model.NotificationTypeRecapReady,
		"Your recap is ready",
		"Your interaction recap for the past month is ready to view",
		map[string]interface{}{
			"target_id": recapID,
		},
	)
}

func (s *notificationService) SendScheduledMessageNotification(receiverID, senderID, messageID, title string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeScheduledMessage,
		"New message",
		fmt.Sprintf("You received a scheduled message: %s", title),
		map[string]interface{}{
			"sender_id": senderID,
			"target_id": messageID,
		},
	)
}

func (s *notificationService) GetNotificationsByUserID(userID string, limit, offset int) ([]*model.Notification, error) {
	return s.notifRepo.FindByUserID(userID, limit, offset)
}

func (s *notificationService) GetUnreadNotifications(userID string) ([]*model.Notification, error) {
	return s.notifRepo.FindUnreadByUserID(userID)
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notifRepo.CountUnreadByUserID(userID)
}

func (s *notificationService) MarkAsRead(notificationID, userID string) error {
	notification, err := s.notifRepo.FindByID(notificationID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
	}
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("%w: notification %s does not belong to user %s", ErrNotAuthorized, notificationID, userID)
	}
	return s.notifRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notifRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(notificationID, userID string) error {
	notification, err := s.notifRepo.FindByID(notificationID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
	}
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("%w: notification %s does not belong to user %s", ErrNotAuthorized, notificationID, userID)
	}
	return s.notifRepo.Delete(notificationID)
}
