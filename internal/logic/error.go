package logic

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrProductUnavailable      = errors.New("one or more products are unavailable")
	ErrOutOfStock              = errors.New("insufficient stock for one or more products")
	ErrVoucherNotFound         = errors.New("voucher not found")
	ErrVoucherNotApplicable    = errors.New("voucher is not applicable to this user")
	ErrVoucherExpired          = errors.New("voucher has expired")
	ErrVoucherUsed             = errors.New("voucher has already been used")
	ErrMinOrderValueNotMet     = errors.New("order value is below the voucher minimum")
	ErrInsufficientPoints      = errors.New("insufficient loyalty points")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrPaymentWindowExpired    = errors.New("payment window has expired")
	ErrBillNotCancellable      = errors.New("bill can no longer be cancelled")
	ErrBillAlreadyProcessed    = errors.New("bill has already been processed")
	ErrInvalidStatusTransition = errors.New("invalid bill status transition")
	ErrPaymentNotSettled       = errors.New("bill payment is not settled")
	ErrAmountMismatch          = errors.New("gateway amount does not match the bill total")
	ErrPermissionDenied        = errors.New("permission denied")
)

func isNotFound(err error) bool {
	return errors.Is(err, mongodb.ErrNotFound)
}

// isTransientTxnError reports whether a transaction commit lost a write race
// that the server rolled back cleanly, so a single re-run is safe.
func isTransientTxnError(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorLabel("TransientTransactionError")
}
