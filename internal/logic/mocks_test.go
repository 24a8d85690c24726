package logic

import (
	"context"
	"net/url"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/dto"
	"github.com/nghiakieran/ute-shop-sub000/internal/gateway"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
)

// mockBillRepository implements repository.BillRepository using testify/mock.
type mockBillRepository struct {
	mock.Mock
}

func newMockBillRepository() *mockBillRepository {
	return &mockBillRepository{}
}

func (m *mockBillRepository) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	args := m.Called(ctx, bill)
	if oid := args.Get(0); oid != nil {
		return oid.(primitive.ObjectID), args.Error(1)
	}
	return primitive.NilObjectID, args.Error(1)
}

func (m *mockBillRepository) GetBillByCode(ctx context.Context, billCode string) (*models.Bill, error) {
	args := m.Called(ctx, billCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) GetBillsByUser(ctx context.Context, params *repository.ListBillsParams) ([]*models.Bill, int64, error) {
	args := m.Called(ctx, params)
	var bills []*models.Bill
	if v := args.Get(0); v != nil {
		bills = v.([]*models.Bill)
	}
	return bills, args.Get(1).(int64), args.Error(2)
}

func (m *mockBillRepository) UpdateBill(ctx context.Context, billCode string, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, billCode, opts)
	return args.Error(0)
}

func (m *mockBillRepository) MarkPaid(ctx context.Context, billCode string, gatewayTxnNo string, paidAt time.Time) error {
	args := m.Called(ctx, billCode, gatewayTxnNo, paidAt)
	return args.Error(0)
}

func (m *mockBillRepository) MarkPaymentFailed(ctx context.Context, billCode string) error {
	args := m.Called(ctx, billCode)
	return args.Error(0)
}

func (m *mockBillRepository) CancelPending(ctx context.Context, billCode string, operator *models.User) (*models.Bill, error) {
	args := m.Called(ctx, billCode, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) FindExpiredBankTransfers(ctx context.Context, olderThan time.Time, limit int) ([]*models.Bill, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

// mockVoucherRepository implements repository.VoucherRepository using testify/mock.
type mockVoucherRepository struct {
	mock.Mock
}

func newMockVoucherRepository() *mockVoucherRepository {
	return &mockVoucherRepository{}
}

func (m *mockVoucherRepository) CreateVoucher(ctx context.Context, v *models.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVoucherRepository) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Voucher), args.Error(1)
}

func (m *mockVoucherRepository) RedeemVoucher(ctx context.Context, code string, billCode string, usedAt time.Time) error {
	args := m.Called(ctx, code, billCode, usedAt)
	return args.Error(0)
}

func (m *mockVoucherRepository) ReleaseVoucher(ctx context.Context, code string, billCode string) error {
	args := m.Called(ctx, code, billCode)
	return args.Error(0)
}

func (m *mockVoucherRepository) ExpireVouchers(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockLoyaltyRepository implements repository.LoyaltyRepository using testify/mock.
type mockLoyaltyRepository struct {
	mock.Mock
}

func newMockLoyaltyRepository() *mockLoyaltyRepository {
	return &mockLoyaltyRepository{}
}

func (m *mockLoyaltyRepository) AppendTransaction(ctx context.Context, tx *models.LoyaltyPointTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockLoyaltyRepository) GetBalance(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// mockCatalogRepository implements repository.CatalogRepository using testify/mock.
type mockCatalogRepository struct {
	mock.Mock
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{}
}

func (m *mockCatalogRepository) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *mockCatalogRepository) DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *mockCatalogRepository) RestoreStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

// mockCartRepository implements repository.CartRepository using testify/mock.
type mockCartRepository struct {
	mock.Mock
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{}
}

func (m *mockCartRepository) GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *mockCartRepository) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// mockAuditLogRepository implements repository.AuditLogRepository using testify/mock.
type mockAuditLogRepository struct {
	mock.Mock
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockAuditLogRepository) GetByEntityID(ctx context.Context, entityID primitive.ObjectID) ([]*models.AuditLog, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// mockOutboxRepository implements repository.OutboxRepository using testify/mock.
type mockOutboxRepository struct {
	mock.Mock
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{}
}

func (m *mockOutboxRepository) Create(ctx context.Context, message *models.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepository) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OutboxMessage), args.Error(1)
}

func (m *mockOutboxRepository) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepository) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

// mockPaymentGateway implements gateway.PaymentGateway using testify/mock.
type mockPaymentGateway struct {
	mock.Mock
}

func newMockPaymentGateway() *mockPaymentGateway {
	return &mockPaymentGateway{}
}

func (m *mockPaymentGateway) BuildPaymentURL(bill *models.Bill, clientIP string, now time.Time) (string, error) {
	args := m.Called(bill, clientIP, now)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentGateway) ParseCallback(query url.Values) (*gateway.CallbackData, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CallbackData), args.Error(1)
}

func (m *mockPaymentGateway) QueryTransaction(ctx context.Context, billCode string, createdAt time.Time) (*gateway.TxnStatus, error) {
	args := m.Called(ctx, billCode, createdAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.TxnStatus), args.Error(1)
}

// mockPricingLogic implements PricingLogic using testify/mock.
type mockPricingLogic struct {
	mock.Mock
}

func newMockPricingLogic() *mockPricingLogic {
	return &mockPricingLogic{}
}

func (m *mockPricingLogic) BuildQuote(ctx context.Context, user *models.User, voucherCode string, loyaltyPoints int64) (*dto.Quote, error) {
	args := m.Called(ctx, user, voucherCode, loyaltyPoints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Quote), args.Error(1)
}
