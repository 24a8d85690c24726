package db

import "context"

// TransactionManager runs fn atomically: every write fn performs through the
// context it receives commits or rolls back as one unit. The checkout and
// cancellation commits depend on this.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error)
}
