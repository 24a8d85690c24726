package worker

import "context"

// Worker is a background loop. Start blocks until the context is cancelled;
// the app runtime supervises one goroutine per worker.
type Worker interface {
	Start(ctx context.Context)
}
