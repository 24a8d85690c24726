package mq

import "context"

// Publisher delivers outbox payloads to a message broker. The outbox
// processor is the only caller; it treats a returned error as "leave the
// message claimed for a later attempt".
type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
	Close()
}
