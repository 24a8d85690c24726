package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.uber.org/zap"
)

// RedemptionLogic validates vouchers and loyalty point spends against a cart
// subtotal. It only reads; consuming the voucher and the points happens inside
// the checkout transaction with conditional writes.
type RedemptionLogic interface {
	ApplyVoucher(ctx context.Context, user *models.User, code string, subtotal int64) (*models.Voucher, int64, error)
	ApplyLoyaltyPoints(ctx context.Context, user *models.User, requested int64, payable int64, pointValue int64) (int64, error)
}

var _ RedemptionLogic = (*redemptionLogic)(nil)

func NewRedemptionLogic(voucherRepo repository.VoucherRepository, loyaltyRepo repository.LoyaltyRepository, logger *zap.Logger) *redemptionLogic {
	return &redemptionLogic{
		voucherRepo: voucherRepo,
		loyaltyRepo: loyaltyRepo,
		logger:      logger.Named("RedemptionLogic"),
	}
}

type redemptionLogic struct {
	voucherRepo repository.VoucherRepository
	loyaltyRepo repository.LoyaltyRepository
	logger      *zap.Logger
}

// ApplyVoucher validates the voucher for this user and subtotal and returns
// the discount it grants. The discount never exceeds the subtotal.
func (l *redemptionLogic) ApplyVoucher(ctx context.Context, user *models.User, code string, subtotal int64) (*models.Voucher, int64, error) {
	voucher, err := l.voucherRepo.GetVoucherByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, ErrVoucherNotFound
		}
		return nil, 0, fmt.Errorf("failed to fetch voucher %s: %w", code, err)
	}

	if voucher.UserID != nil && voucher.UserID.Hex() != user.UserId.Hex() {
		return nil, 0, ErrVoucherNotApplicable
	}

	switch constants.ParseVoucherStatus(voucher.Status) {
	case constants.VoucherStatusActive:
	case constants.VoucherStatusUsed:
		return nil, 0, ErrVoucherUsed
	case constants.VoucherStatusExpired:
		return nil, 0, ErrVoucherExpired
	default:
		return nil, 0, ErrVoucherNotFound
	}

	// The expirer runs on an interval; check the date too so a voucher that
	// lapsed between sweeps cannot slip through.
	if voucher.ExpiryDate.Before(time.Now()) {
		return nil, 0, ErrVoucherExpired
	}

	if subtotal < voucher.MinOrderValue {
		return nil, 0, ErrMinOrderValueNotMet
	}

	discount := voucherDiscount(voucher, subtotal)
	return voucher, discount, nil
}

// ApplyLoyaltyPoints resolves how many of the requested points may be spent.
// The spend is capped by the payable amount so a bill total can never go
// negative; asking for more points than the balance is an error, not a cap.
func (l *redemptionLogic) ApplyLoyaltyPoints(ctx context.Context, user *models.User, requested int64, payable int64, pointValue int64) (int64, error) {
	if requested <= 0 {
		return 0, nil
	}
	if pointValue <= 0 {
		return 0, fmt.Errorf("loyalty point value is not configured")
	}

	balance, err := l.loyaltyRepo.GetBalance(ctx, user.UserId)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch loyalty balance: %w", err)
	}
	if requested > balance {
		return 0, ErrInsufficientPoints
	}

	used := requested
	if maxUsable := payable / pointValue; used > maxUsable {
		used = maxUsable
	}
	return used, nil
}

// voucherDiscount computes the VND discount a voucher grants on a subtotal.
// Percentage vouchers are capped by MaxDiscount when one is set; every
// discount is capped by the subtotal itself.
func voucherDiscount(voucher *models.Voucher, subtotal int64) int64 {
	var discount int64
	switch constants.ParseVoucherType(voucher.Type) {
	case constants.VoucherTypePercentage:
		discount = subtotal * voucher.Value / 100
		if voucher.MaxDiscount > 0 && discount > voucher.MaxDiscount {
			discount = voucher.MaxDiscount
		}
	case constants.VoucherTypeFixedAmount:
		discount = voucher.Value
	}

	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
