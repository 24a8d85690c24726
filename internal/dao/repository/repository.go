package repository

import (
	"context"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillRepository interface {
	CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	GetBillByCode(ctx context.Context, billCode string) (*models.Bill, error)
	GetBillsByUser(ctx context.Context, params *ListBillsParams) ([]*models.Bill, int64, error)
	UpdateBill(ctx context.Context, billCode string, opts ...UpdateOption) error
	// MarkPaid flips payment_status PENDING -> PAID conditionally; it returns
	// ErrAlreadySettled when the bill is no longer pending.
	MarkPaid(ctx context.Context, billCode string, gatewayTxnNo string, paidAt time.Time) error
	MarkPaymentFailed(ctx context.Context, billCode string) error
	// CancelPending cancels a bill only while status=PENDING and
	// payment_status != PAID, evaluated at commit time. Losing a race against
	// a settlement callback surfaces as ErrNotCancellable.
	CancelPending(ctx context.Context, billCode string, operator *models.User) (*models.Bill, error)
	FindExpiredBankTransfers(ctx context.Context, olderThan time.Time, limit int) ([]*models.Bill, error)
}

type VoucherRepository interface {
	CreateVoucher(ctx context.Context, v *models.Voucher) error
	GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	// RedeemVoucher flips status ACTIVE -> USED conditionally; the loser of a
	// concurrent redemption gets ErrVoucherConsumed.
	RedeemVoucher(ctx context.Context, code string, billCode string, usedAt time.Time) error
	// ReleaseVoucher undoes a redemption (USED -> ACTIVE) when the bill that
	// consumed it is cancelled or swept.
	ReleaseVoucher(ctx context.Context, code string, billCode string) error
	ExpireVouchers(ctx context.Context, now time.Time) (int64, error)
}

type LoyaltyRepository interface {
	AppendTransaction(ctx context.Context, tx *models.LoyaltyPointTransaction) error
	GetBalance(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type CatalogRepository interface {
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)
	// DecrementStock is a single atomic decrement-if-sufficient update; the
	// loser of a stock race gets ErrInsufficientStock and no partial write.
	DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int64) error
	RestoreStock(ctx context.Context, productID primitive.ObjectID, qty int64) error
}

type CartRepository interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByEntityID(ctx context.Context, entityID primitive.ObjectID) ([]*models.AuditLog, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, message *models.OutboxMessage) error
	ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}
