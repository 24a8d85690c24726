package noop

import (
	"context"

	"github.com/nghiakieran/ute-shop-sub000/internal/mq"
)

// Publisher is a no-op publisher. It implements mq.Publisher and silently
// discards everything, which is what dev mode without a broker wants.
type Publisher struct{}

// NewPublisher creates a new no-op Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish does nothing and returns nil.
func (p *Publisher) Publish(ctx context.Context, topic string, body []byte) error {
	return nil
}

// Close does nothing.
func (p *Publisher) Close() {
}

var _ mq.Publisher = (*Publisher)(nil)
