package db

import "context"

// NoOpTransactionManager runs fn directly, with no transactional guarantee.
// Used in dev and test mode, where Mongo runs standalone without a replica
// set. The conditional writes inside fn still hold individually.
type NoOpTransactionManager struct{}

func NewNoOpTransactionManager() TransactionManager {
	return &NoOpTransactionManager{}
}

func (n *NoOpTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}
