package rabbitmq

import (
	"context"
	"fmt"
	"runtime/debug"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
)

// HandlerFunc processes one delivery. A nil return acks the message; an
// error nacks it back onto the queue for another attempt.
type HandlerFunc func(ctx context.Context, delivery amqp.Delivery) error

// Consumer drains registered queues, one goroutine per queue, with manual
// ack/nack so a crash mid-handler redelivers instead of losing the message.
type Consumer struct {
	conn     *amqp.Connection
	logger   *zap.Logger
	handlers map[string]HandlerFunc
	done     chan error
}

func NewConsumer(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Consumer, error) {
	namedLogger := logger.Named("RabbitMQConsumer")

	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp.Dial(dsn)
	if err != nil {
		namedLogger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, err
	}

	namedLogger.Info("Successfully connected to RabbitMQ")

	return &Consumer{
		conn:     conn,
		logger:   namedLogger,
		handlers: make(map[string]HandlerFunc),
		done:     make(chan error),
	}, nil
}

// RegisterHandler binds a queue to its handler. Must be called before Start.
func (c *Consumer) RegisterHandler(queueName string, handler HandlerFunc) {
	c.handlers[queueName] = handler
}

// Start consumes every registered queue and blocks until the context is
// cancelled or a queue setup fails.
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered, consumer will not start")
	}

	for queueName, handler := range c.handlers {
		go c.consumeQueue(ctx, queueName, handler)
	}

	return <-c.done
}

func (c *Consumer) consumeQueue(ctx context.Context, queueName string, handler HandlerFunc) {
	ch, err := c.conn.Channel()
	if err != nil {
		c.logger.Error("Failed to open a channel", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}
	defer ch.Close()

	// Durable queue: notifications survive a broker restart.
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		c.logger.Error("Failed to declare a queue", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	// One unacked message at a time keeps redelivery ordering simple.
	if err := ch.Qos(1, 0, false); err != nil {
		c.logger.Error("Failed to set QoS", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		c.logger.Error("Failed to register a consumer", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	c.logger.Info("Started consuming from queue", zap.String("queue", q.Name))

	for {
		select {
		case d := <-msgs:
			c.dispatch(ctx, q.Name, d, handler)
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping consumer", zap.String("queue", q.Name))
			c.done <- nil
			return
		}
	}
}

// dispatch runs the handler with panic isolation. A panicking delivery is
// nacked without requeue so a poison message cannot wedge the queue.
func (c *Consumer) dispatch(ctx context.Context, queue string, d amqp.Delivery, handler HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered in message handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.String("queue", queue),
			)
			if d.Acknowledger != nil {
				d.Nack(false, false)
			}
		}
	}()

	c.logger.Debug("Received a message", zap.String("queue", queue), zap.ByteString("body", d.Body))

	if err := handler(ctx, d); err != nil {
		c.logger.Error("Handler failed to process message", zap.Error(err), zap.String("queue", queue))
		if d.Acknowledger != nil {
			d.Nack(false, true)
		}
		return
	}
	if d.Acknowledger != nil {
		d.Ack(false)
	}
}

// Close shuts the connection down.
func (c *Consumer) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
}
