package mongodb

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrVoucherConsumed   = errors.New("voucher already consumed")
	ErrAlreadySettled    = errors.New("bill payment already settled")
	ErrNotCancellable    = errors.New("bill is not cancellable")
)
