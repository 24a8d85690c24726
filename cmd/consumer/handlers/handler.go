package handlers

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler binds a queue to the code that consumes it. The consumer app
// collects all handlers and subscribes each one to its queue.
type MessageHandler interface {
	// QueueName names the queue this handler consumes from.
	QueueName() string
	// Handle processes one delivery. A nil return acknowledges the message.
	Handle(ctx context.Context, d amqp.Delivery) error
}
