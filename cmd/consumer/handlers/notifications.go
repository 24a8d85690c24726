package handlers

import (
	"context"
	"encoding/json"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/constants"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// NotificationHandler consumes order lifecycle events and fans them out to
// the notification channels (email, push). Delivery to external channels is
// stubbed as structured logging for now.
type NotificationHandler struct {
	logger *zap.Logger
	cfg    *conf.RabbitMQConfig
}

// NewNotificationHandler creates a new handler for order lifecycle events.
func NewNotificationHandler(logger *zap.Logger, cfg *conf.RabbitMQConfig) *NotificationHandler {
	return &NotificationHandler{
		logger: logger.Named("NotificationHandler"),
		cfg:    cfg,
	}
}

// QueueName returns the name of the queue this handler subscribes to.
func (h *NotificationHandler) QueueName() string {
	return h.cfg.NotificationEventTopic
}

// Handle processes the incoming message.
func (h *NotificationHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	var payload struct {
		Event         string `json:"event"`
		BillCode      string `json:"bill_code"`
		UserID        string `json:"user_id"`
		Total         int64  `json:"total"`
		PaymentMethod string `json:"payment_method"`
		PaymentStatus string `json:"payment_status"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal message body", zap.Error(err), zap.ByteString("body", d.Body))
		return nil // Poison pill, ACK and remove.
	}

	switch payload.Event {
	case constants.NotificationOrderCreated:
		h.logger.Info("Notifying customer: order received",
			zap.String("bill_code", payload.BillCode),
			zap.String("user_id", payload.UserID),
			zap.Int64("total", payload.Total),
			zap.String("payment_method", payload.PaymentMethod),
		)
	case constants.NotificationOrderPaid:
		h.logger.Info("Notifying customer: payment confirmed",
			zap.String("bill_code", payload.BillCode),
			zap.String("user_id", payload.UserID),
			zap.Int64("total", payload.Total),
		)
	case constants.NotificationOrderShipping:
		h.logger.Info("Notifying customer: order shipped",
			zap.String("bill_code", payload.BillCode),
			zap.String("user_id", payload.UserID),
		)
	case constants.NotificationOrderCompleted:
		h.logger.Info("Notifying customer: order completed",
			zap.String("bill_code", payload.BillCode),
			zap.String("user_id", payload.UserID),
		)
	case constants.NotificationOrderCancelled:
		h.logger.Info("Notifying customer: order cancelled",
			zap.String("bill_code", payload.BillCode),
			zap.String("user_id", payload.UserID),
			zap.String("status", payload.Status),
		)
	default:
		h.logger.Warn("Unknown event type, discarding",
			zap.String("event", payload.Event),
			zap.String("bill_code", payload.BillCode),
		)
	}
	return nil
}
