package service

import (
	"encoding/json"
	"log"

	"socialnet/internal/util"
	"socialnet/internal/websocket"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationWorker consumes notification messages from RabbitMQ and pushes
// them to connected WebSocket clients. It covers notifications published by
// other instances that did not originate on this node's hub.
type NotificationWorker struct {
	rabbitMQ *util.RabbitMQClient
	wsHub    *websocket.Hub
	stopChan chan bool
}

func NewNotificationWorker(rabbitMQ *util.RabbitMQClient, wsHub *websocket.Hub) *NotificationWorker {
	return &NotificationWorker{
		rabbitMQ: rabbitMQ,
		wsHub:    wsHub,
		stopChan: make(chan bool),
	}
}

// Start begins consuming notification messages from RabbitMQ.
func (w *NotificationWorker) Start() error {
	if w.rabbitMQ == nil {
		return nil // RabbitMQ not available, worker will not start
	}

	if err := w.rabbitMQ.DeclareQueue(NotificationExchange, NotificationQueueName, NotificationRoutingKey); err != nil {
		return err
	}

	msgs, err := w.rabbitMQ.Consume(NotificationQueueName)
	if err != nil {
		return err
	}

	go func() {
		log.Println("Notification worker started, consuming messages...")
		for {
			select {
			case <-w.stopChan:
				log.Println("Notification worker stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("Notification queue closed")
					return
				}
				if err := w.processMessage(msg); err != nil {
					log.Printf("Error processing notification message: %v", err)
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

func (w *NotificationWorker) processMessage(msg amqp.Delivery) error {
	var notificationMsg NotificationMessage
	if err := json.Unmarshal(msg.Body, &notificationMsg); err != nil {
		return err
	}

	if w.wsHub != nil {
		w.wsHub.BroadcastToUser(notificationMsg.UserID, map[string]interface{}{
			"type":    notificationMsg.Type,
			"title":   notificationMsg.Title,
			"message": notificationMsg.Message,
			"data":    notificationMsg.Data,
		})
	}

	return nil
}

// Stop stops the notification worker.
func (w *NotificationWorker) Stop() {
	close(w.stopChan)
}
