package logic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
)

func activeVoucher(code string) *models.Voucher {
	return &models.Voucher{
		Code:          code,
		Type:          constants.VoucherTypePercentage.String(),
		Value:         10,
		MaxDiscount:   50_000,
		MinOrderValue: 200_000,
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		Status:        constants.VoucherStatusActive.String(),
	}
}

func TestRedemptionLogic_ApplyVoucher(t *testing.T) {
	user := &models.User{UserId: primitive.NewObjectID()}

	t.Run("percentage discount below cap", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		voucherRepo.On("GetVoucherByCode", mock.Anything, "SAVE10").Return(activeVoucher("SAVE10"), nil).Once()

		_, discount, err := l.ApplyVoucher(context.Background(), user, "SAVE10", 400_000)
		require.NoError(t, err)
		assert.EqualValues(t, 40_000, discount)
	})

	t.Run("percentage discount hits cap", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		voucherRepo.On("GetVoucherByCode", mock.Anything, "SAVE10").Return(activeVoucher("SAVE10"), nil).Once()

		_, discount, err := l.ApplyVoucher(context.Background(), user, "SAVE10", 600_000)
		require.NoError(t, err)
		assert.EqualValues(t, 50_000, discount)
	})

	t.Run("fixed discount never exceeds subtotal", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		v := activeVoucher("FLAT300")
		v.Type = constants.VoucherTypeFixedAmount.String()
		v.Value = 300_000
		v.MinOrderValue = 0
		voucherRepo.On("GetVoucherByCode", mock.Anything, "FLAT300").Return(v, nil).Once()

		_, discount, err := l.ApplyVoucher(context.Background(), user, "FLAT300", 250_000)
		require.NoError(t, err)
		assert.EqualValues(t, 250_000, discount)
	})

	t.Run("below minimum order value", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		voucherRepo.On("GetVoucherByCode", mock.Anything, "SAVE10").Return(activeVoucher("SAVE10"), nil).Once()

		_, _, err := l.ApplyVoucher(context.Background(), user, "SAVE10", 150_000)
		assert.ErrorIs(t, err, ErrMinOrderValueNotMet)
	})

	t.Run("voucher scoped to another user", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		otherID := primitive.NewObjectID()
		v := activeVoucher("MINE")
		v.UserID = &otherID
		voucherRepo.On("GetVoucherByCode", mock.Anything, "MINE").Return(v, nil).Once()

		_, _, err := l.ApplyVoucher(context.Background(), user, "MINE", 400_000)
		assert.ErrorIs(t, err, ErrVoucherNotApplicable)
	})

	t.Run("used voucher", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		v := activeVoucher("ONCE")
		v.Status = constants.VoucherStatusUsed.String()
		voucherRepo.On("GetVoucherByCode", mock.Anything, "ONCE").Return(v, nil).Once()

		_, _, err := l.ApplyVoucher(context.Background(), user, "ONCE", 400_000)
		assert.ErrorIs(t, err, ErrVoucherUsed)
	})

	t.Run("date expired but not yet swept", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		v := activeVoucher("LATE")
		v.ExpiryDate = time.Now().Add(-time.Minute)
		voucherRepo.On("GetVoucherByCode", mock.Anything, "LATE").Return(v, nil).Once()

		_, _, err := l.ApplyVoucher(context.Background(), user, "LATE", 400_000)
		assert.ErrorIs(t, err, ErrVoucherExpired)
	})

	t.Run("unknown code", func(t *testing.T) {
		voucherRepo := newMockVoucherRepository()
		l := NewRedemptionLogic(voucherRepo, newMockLoyaltyRepository(), zap.NewNop())

		voucherRepo.On("GetVoucherByCode", mock.Anything, "GHOST").Return(nil, mongodb.ErrNotFound).Once()

		_, _, err := l.ApplyVoucher(context.Background(), user, "GHOST", 400_000)
		assert.ErrorIs(t, err, ErrVoucherNotFound)
	})
}

func TestRedemptionLogic_ApplyLoyaltyPoints(t *testing.T) {
	user := &models.User{UserId: primitive.NewObjectID()}

	t.Run("zero request spends nothing", func(t *testing.T) {
		l := NewRedemptionLogic(newMockVoucherRepository(), newMockLoyaltyRepository(), zap.NewNop())

		used, err := l.ApplyLoyaltyPoints(context.Background(), user, 0, 500_000, 1_000)
		require.NoError(t, err)
		assert.EqualValues(t, 0, used)
	})

	t.Run("request within balance and payable", func(t *testing.T) {
		loyaltyRepo := newMockLoyaltyRepository()
		l := NewRedemptionLogic(newMockVoucherRepository(), loyaltyRepo, zap.NewNop())

		loyaltyRepo.On("GetBalance", mock.Anything, user.UserId).Return(int64(500), nil).Once()

		used, err := l.ApplyLoyaltyPoints(context.Background(), user, 100, 500_000, 1_000)
		require.NoError(t, err)
		assert.EqualValues(t, 100, used)
	})

	t.Run("request capped by payable", func(t *testing.T) {
		loyaltyRepo := newMockLoyaltyRepository()
		l := NewRedemptionLogic(newMockVoucherRepository(), loyaltyRepo, zap.NewNop())

		loyaltyRepo.On("GetBalance", mock.Anything, user.UserId).Return(int64(500), nil).Once()

		used, err := l.ApplyLoyaltyPoints(context.Background(), user, 100, 80_000, 1_000)
		require.NoError(t, err)
		assert.EqualValues(t, 80, used)
	})

	t.Run("unconfigured point value fails instead of dividing by zero", func(t *testing.T) {
		l := NewRedemptionLogic(newMockVoucherRepository(), newMockLoyaltyRepository(), zap.NewNop())

		_, err := l.ApplyLoyaltyPoints(context.Background(), user, 100, 500_000, 0)
		assert.ErrorContains(t, err, "point value is not configured")
	})

	t.Run("request beyond balance fails", func(t *testing.T) {
		loyaltyRepo := newMockLoyaltyRepository()
		l := NewRedemptionLogic(newMockVoucherRepository(), loyaltyRepo, zap.NewNop())

		loyaltyRepo.On("GetBalance", mock.Anything, user.UserId).Return(int64(50), nil).Once()

		_, err := l.ApplyLoyaltyPoints(context.Background(), user, 100, 500_000, 1_000)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})
}
