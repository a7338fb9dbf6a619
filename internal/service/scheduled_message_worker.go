package service

import (
	"log"
	"time"

	"socialnet/internal/repository"
)

const (
	deliveryPollInterval = 30 * time.Second
	deliveryBatchSize    = 100
)

// ScheduledMessageWorker polls for scheduled messages whose delivery time has
// passed and pushes a notification to each recipient.
type ScheduledMessageWorker struct {
	messageRepo repository.ScheduledMessageRepository
	notifSvc    NotificationService
	stopChan    chan bool
}

func NewScheduledMessageWorker(
	messageRepo repository.ScheduledMessageRepository,
	notifSvc NotificationService,
) *ScheduledMessageWorker {
	return &ScheduledMessageWorker{
		messageRepo: messageRepo,
		notifSvc:    notifSvc,
		stopChan:    make(chan bool),
	}
}

// Start begins the delivery loop in a goroutine.
func (w *ScheduledMessageWorker) Start() {
	go func() {
		log.Println("Scheduled message worker started")
		ticker := time.NewTicker(deliveryPollInterval)
		defer ticker.Stop()

		// Deliver anything already due before the first tick
		w.deliverDue()

		for {
			select {
			case <-w.stopChan:
				log.Println("Scheduled message worker stopped")
				return
			case <-ticker.C:
				w.deliverDue()
			}
		}
	}()
}

// deliverDue finds undelivered messages whose time has passed, marks each one
// delivered and notifies its recipients. A message is marked delivered before
// the notifications fan out so a crash mid-batch cannot double-deliver.
func (w *ScheduledMessageWorker) deliverDue() {
	messages, err := w.messageRepo.FindUndeliveredDue(time.Now(), deliveryBatchSize)
	if err != nil {
		log.Printf("Failed to query due scheduled messages: %v", err)
		return
	}

	for _, message := range messages {
		if err := w.messageRepo.MarkDelivered(message.ID); err != nil {
			if repository.IsNotFound(err) {
				continue // claimed by another instance
			}
			log.Printf("Failed to mark scheduled message %s delivered: %v", message.ID, err)
			continue
		}

		for _, recipientID := range message.GetRecipients() {
			if err := w.notifSvc.SendScheduledMessageNotification(recipientID, message.UserID, message.ID, message.Title); err != nil {
				log.Printf("Failed to notify user %s about scheduled message %s: %v", recipientID, message.ID, err)
			}
		}
	}
}

// Stop stops the delivery loop.
func (w *ScheduledMessageWorker) Stop() {
	close(w.stopChan)
}
