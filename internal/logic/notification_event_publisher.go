package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationEventTopic string

// NotificationEventPublisher writes order lifecycle events to the outbox so
// they commit atomically with the bill change they describe. The outbox
// processor drains them to the message queue afterwards.
type NotificationEventPublisher struct {
	outboxRepo repository.OutboxRepository
	topic      NotificationEventTopic
}

// NewNotificationEventPublisher creates a new NotificationEventPublisher.
func NewNotificationEventPublisher(outboxRepo repository.OutboxRepository, topic NotificationEventTopic) *NotificationEventPublisher {
	return &NotificationEventPublisher{
		outboxRepo: outboxRepo,
		topic:      topic,
	}
}

// PublishBillEvent creates an outbox message for a bill lifecycle event
// (e.g. order.created, order.paid, order.cancelled).
func (p *NotificationEventPublisher) PublishBillEvent(ctx context.Context, event string, bill *models.Bill) error {
	payload := map[string]interface{}{
		"event":          event,
		"bill_code":      bill.BillCode,
		"user_id":        bill.User.UserId.Hex(),
		"total":          bill.Total,
		"payment_method": bill.PaymentMethod,
		"payment_status": bill.PaymentStatus,
		"status":         bill.Status,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		// Errors from marshalling are fatal for the transaction, as the payload can't be constructed.
		return fmt.Errorf("failed to marshal bill event payload: %w", err)
	}

	outboxMsg := &models.OutboxMessage{
		ID:        primitive.NewObjectID(),
		Topic:     string(p.topic),
		Payload:   string(payloadBytes),
		Status:    models.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	if err := p.outboxRepo.Create(ctx, outboxMsg); err != nil {
		// Errors from creating the outbox message are also fatal for the transaction.
		return fmt.Errorf("failed to create bill event outbox message: %w", err)
	}
	return nil
}
