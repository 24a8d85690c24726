package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/db"
	"github.com/nghiakieran/ute-shop-sub000/internal/dto"
	"github.com/nghiakieran/ute-shop-sub000/internal/gateway"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
	"github.com/nghiakieran/ute-shop-sub000/pkg/pagination"
	"github.com/nghiakieran/ute-shop-sub000/pkg/snowflake"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BillLogic defines the interface for order lifecycle business logic.
type BillLogic interface {
	CreateBill(ctx context.Context, d *dto.CreateBillRequest, clientIP string) (*dto.CreateBillResponse, error)
	GetBill(ctx context.Context, billCode string, user *models.User) (*dto.BillView, error)
	ListBills(ctx context.Context, d *dto.ListBillsRequest) (*pagination.PageResult, error)
	CancelBill(ctx context.Context, d *dto.CancelBillRequest) error
	RetryPayment(ctx context.Context, billCode string, user *models.User, clientIP string) (string, error)
	ProcessPaymentCallback(ctx context.Context, data *gateway.CallbackData) (*dto.PaymentCallbackResult, error)
	MarkShipped(ctx context.Context, billCode string, operator *models.User) error
	MarkCompleted(ctx context.Context, billCode string, operator *models.User) error
	GetBillAudit(ctx context.Context, billCode string) ([]*models.AuditLog, error)
	SweepExpiredPayments(ctx context.Context) (int, error)
}

var _ BillLogic = (*billLogic)(nil)

type billLogic struct {
	billRepo       repository.BillRepository
	voucherRepo    repository.VoucherRepository
	loyaltyRepo    repository.LoyaltyRepository
	catalogRepo    repository.CatalogRepository
	cartRepo       repository.CartRepository
	auditLogRepo   repository.AuditLogRepository
	pricing        PricingLogic
	eventPublisher *NotificationEventPublisher
	paymentGateway gateway.PaymentGateway
	txManager      db.TransactionManager
	idGenerator    *snowflake.Generator
	pricingCfg     *conf.PricingConfig
	windowCfg      *conf.PaymentWindowConfig
	logger         *zap.Logger
}

func NewBillLogic(
	billRepo repository.BillRepository,
	voucherRepo repository.VoucherRepository,
	loyaltyRepo repository.LoyaltyRepository,
	catalogRepo repository.CatalogRepository,
	cartRepo repository.CartRepository,
	auditLogRepo repository.AuditLogRepository,
	pricing PricingLogic,
	eventPublisher *NotificationEventPublisher,
	paymentGateway gateway.PaymentGateway,
	txManager db.TransactionManager,
	idGenerator *snowflake.Generator,
	pricingCfg *conf.PricingConfig,
	windowCfg *conf.PaymentWindowConfig,
	logger *zap.Logger,
) *billLogic {
	return &billLogic{
		billRepo:       billRepo,
		voucherRepo:    voucherRepo,
		loyaltyRepo:    loyaltyRepo,
		catalogRepo:    catalogRepo,
		cartRepo:       cartRepo,
		auditLogRepo:   auditLogRepo,
		pricing:        pricing,
		eventPublisher: eventPublisher,
		paymentGateway: paymentGateway,
		txManager:      txManager,
		idGenerator:    idGenerator,
		pricingCfg:     pricingCfg,
		windowCfg:      windowCfg,
		logger:         logger.Named("BillLogic"),
	}
}

// paymentWindow is how long a bank-transfer bill may stay unpaid before the
// sweeper cancels it and before retry-payment stops issuing new URLs.
func (l *billLogic) paymentWindow() time.Duration {
	if l.windowCfg != nil && l.windowCfg.WindowHours > 0 {
		return time.Duration(l.windowCfg.WindowHours) * time.Hour
	}
	return 24 * time.Hour
}

func (l *billLogic) CreateBill(ctx context.Context, d *dto.CreateBillRequest, clientIP string) (*dto.CreateBillResponse, error) {
	method := constants.ParsePaymentMethod(d.GetPaymentMethod())
	if method == constants.PaymentMethodUnknown {
		return nil, ErrInvalidPaymentMethod
	}

	quote, err := l.pricing.BuildQuote(ctx, d.GetUser(), d.GetVoucherCode(), d.GetLoyaltyPoints())
	if err != nil {
		return nil, err
	}

	serialID, err := l.idGenerator.GetID()
	if err != nil {
		l.logger.Error("failed to generate bill serial", zap.Error(err))
		return nil, fmt.Errorf("failed to generate bill code: %w", err)
	}
	billCode := fmt.Sprintf("UTE-%d", serialID)

	now := time.Now()
	bill := &models.Bill{
		ID:                primitive.NewObjectID(),
		BillCode:          billCode,
		User:              d.GetUser(),
		Items:             quote.Lines,
		Subtotal:          quote.Subtotal,
		ShippingFee:       quote.ShippingFee,
		Tax:               quote.Tax,
		Discount:          quote.Discount,
		LoyaltyPointsUsed: quote.LoyaltyPointsUsed,
		Total:             quote.Total,
		VoucherCode:       quote.VoucherCode,
		PaymentMethod:     method.String(),
		PaymentStatus:     constants.PaymentStatusPending.String(),
		Status:            constants.BillStatusPending.String(),
		ReceiverName:      d.GetShipping().ReceiverName(),
		ReceiverPhone:     d.GetShipping().ReceiverPhone(),
		ShippingAddress:   d.GetShipping().Address(),
		Note:              d.GetShipping().Note(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// Cash settles at the door; the bill carries no open payment.
	if method == constants.PaymentMethodCash {
		bill.PaymentStatus = constants.PaymentStatusPaid.String()
		bill.PaidAt = &now
	}

	commit := func(sessCtx context.Context) (interface{}, error) {
		// Reserve stock line by line. Each decrement is conditional, so a
		// concurrent checkout for the last unit fails here instead of
		// overselling.
		for _, line := range bill.Items {
			if err := l.catalogRepo.DecrementStock(sessCtx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, mongodb.ErrInsufficientStock) {
					return nil, ErrOutOfStock
				}
				return nil, fmt.Errorf("failed to reserve stock for %s: %w", line.Name, err)
			}
		}

		if _, err := l.billRepo.CreateBill(sessCtx, bill); err != nil {
			return nil, fmt.Errorf("failed to create bill: %w", err)
		}

		if bill.VoucherCode != "" {
			if err := l.voucherRepo.RedeemVoucher(sessCtx, bill.VoucherCode, bill.BillCode, now); err != nil {
				if errors.Is(err, mongodb.ErrVoucherConsumed) {
					return nil, ErrVoucherUsed
				}
				if isNotFound(err) {
					return nil, ErrVoucherNotFound
				}
				return nil, fmt.Errorf("failed to redeem voucher: %w", err)
			}
		}

		if bill.LoyaltyPointsUsed > 0 {
			redeemTx := &models.LoyaltyPointTransaction{
				UserID:      bill.User.UserId,
				Type:        constants.LoyaltyTxRedeem,
				Points:      -bill.LoyaltyPointsUsed,
				Description: "points redeemed at checkout",
				BillCode:    bill.BillCode,
				CreatedAt:   now,
			}
			if err := l.loyaltyRepo.AppendTransaction(sessCtx, redeemTx); err != nil {
				return nil, fmt.Errorf("failed to record point redemption: %w", err)
			}
		}

		if err := l.cartRepo.ClearCart(sessCtx, bill.User.UserId); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}

		if err := l.auditLogRepo.Create(sessCtx, buildCreateBillAuditLog(bill)); err != nil {
			l.logger.Error("CreateBill: failed to create audit log", zap.Error(err))
			return nil, err
		}

		if err := l.eventPublisher.PublishBillEvent(sessCtx, constants.NotificationOrderCreated, bill); err != nil {
			l.logger.Error("CreateBill: failed to publish event", zap.Error(err), zap.String("billCode", bill.BillCode))
			return nil, err // Return error to rollback transaction
		}

		return nil, nil
	}

	_, err = l.txManager.WithTransaction(ctx, commit)
	if isTransientTxnError(err) {
		// The server rolled the whole commit back after a write race; a
		// single re-run starts from clean state.
		l.logger.Warn("CreateBill: commit lost a write race, retrying once", zap.String("billCode", bill.BillCode))
		_, err = l.txManager.WithTransaction(ctx, commit)
	}
	if err != nil {
		return nil, err
	}

	response := &dto.CreateBillResponse{Bill: bill}
	if method.IsOnline() {
		paymentURL, err := l.paymentGateway.BuildPaymentURL(bill, clientIP, now)
		if err != nil {
			// The bill is committed; the customer can fetch a fresh URL via
			// retry-payment.
			l.logger.Error("CreateBill: failed to build payment url", zap.Error(err), zap.String("billCode", bill.BillCode))
			return response, nil
		}
		response.PaymentURL = paymentURL
	}
	return response, nil
}

func (l *billLogic) GetBill(ctx context.Context, billCode string, user *models.User) (*dto.BillView, error) {
	bill, err := l.billRepo.GetBillByCode(ctx, billCode)
	if err != nil {
		return nil, err
	}
	if bill.User == nil || bill.User.UserId != user.UserId {
		return nil, ErrPermissionDenied
	}
	return newBillView(bill), nil
}

func (l *billLogic) ListBills(ctx context.Context, d *dto.ListBillsRequest) (*pagination.PageResult, error) {
	pageReq := pagination.NewPageRequest(d.GetPage(), d.GetPageSize())

	bills, total, err := l.billRepo.GetBillsByUser(ctx, &repository.ListBillsParams{
		UserID: d.GetUserID(),
		Status: d.GetStatus(),
		Search: d.GetSearch(),
		Limit:  pageReq.GetLimit(),
		Offset: pageReq.GetOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	views := make([]*dto.BillView, len(bills))
	for i, bill := range bills {
		views[i] = newBillView(bill)
	}

	return pagination.NewPageResult(views, total, pageReq), nil
}

func (l *billLogic) CancelBill(ctx context.Context, d *dto.CancelBillRequest) error {
	bill, err := l.billRepo.GetBillByCode(ctx, d.GetBillCode())
	if err != nil {
		return err
	}

	// Customers may only cancel their own bills; the system user cancels on
	// behalf of the sweeper.
	operator := d.GetOperator()
	if operator.UserId != models.SystemUser.UserId && (bill.User == nil || bill.User.UserId != operator.UserId) {
		return ErrPermissionDenied
	}

	return l.cancelAndCompensate(ctx, bill, operator, d.GetReason())
}

// cancelAndCompensate cancels a bill and undoes its side effects in one
// transaction: restocks the lines, releases the voucher, and credits back
// the loyalty points. The conditional cancel decides the race against a
// settlement callback.
func (l *billLogic) cancelAndCompensate(ctx context.Context, bill *models.Bill, operator *models.User, reason string) error {
	_, err := l.txManager.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		cancelled, err := l.billRepo.CancelPending(sessCtx, bill.BillCode, operator)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotCancellable) {
				return nil, ErrBillNotCancellable
			}
			return nil, err
		}

		for _, line := range bill.Items {
			if err := l.catalogRepo.RestoreStock(sessCtx, line.ProductID, line.Quantity); err != nil {
				return nil, fmt.Errorf("failed to restore stock for %s: %w", line.Name, err)
			}
		}

		if bill.VoucherCode != "" {
			if err := l.voucherRepo.ReleaseVoucher(sessCtx, bill.VoucherCode, bill.BillCode); err != nil {
				return nil, fmt.Errorf("failed to release voucher: %w", err)
			}
		}

		if bill.LoyaltyPointsUsed > 0 {
			creditTx := &models.LoyaltyPointTransaction{
				UserID:      bill.User.UserId,
				Type:        constants.LoyaltyTxEarn,
				Points:      bill.LoyaltyPointsUsed,
				Description: "points returned for cancelled order",
				BillCode:    bill.BillCode,
			}
			if err := l.loyaltyRepo.AppendTransaction(sessCtx, creditTx); err != nil {
				return nil, fmt.Errorf("failed to credit back points: %w", err)
			}
		}

		if reason != "" {
			if err := l.billRepo.UpdateBill(sessCtx, bill.BillCode, repository.WithNote(reason)); err != nil {
				return nil, fmt.Errorf("failed to record cancellation reason: %w", err)
			}
		}

		if err := l.auditLogRepo.Create(sessCtx, buildCancelBillAuditLog(operator, bill, cancelled, reason)); err != nil {
			l.logger.Error("cancelAndCompensate: failed to create audit log", zap.Error(err))
			return nil, err
		}

		if err := l.eventPublisher.PublishBillEvent(sessCtx, constants.NotificationOrderCancelled, cancelled); err != nil {
			l.logger.Error("cancelAndCompensate: failed to publish event", zap.Error(err), zap.String("billCode", bill.BillCode))
			return nil, err
		}

		return nil, nil
	})
	return err
}

func (l *billLogic) RetryPayment(ctx context.Context, billCode string, user *models.User, clientIP string) (string, error) {
	bill, err := l.billRepo.GetBillByCode(ctx, billCode)
	if err != nil {
		return "", err
	}
	if bill.User == nil || bill.User.UserId != user.UserId {
		return "", ErrPermissionDenied
	}

	method := constants.ParsePaymentMethod(bill.PaymentMethod)
	if !method.IsOnline() {
		return "", ErrInvalidPaymentMethod
	}
	if constants.ParseBillStatus(bill.Status) != constants.BillStatusPending {
		return "", ErrBillAlreadyProcessed
	}

	switch constants.ParsePaymentStatus(bill.PaymentStatus) {
	case constants.PaymentStatusPending:
	case constants.PaymentStatusFailed:
		// A failed attempt reopens; the bill goes back to awaiting payment.
		if err := l.billRepo.UpdateBill(ctx, billCode, repository.WithPaymentStatus(constants.PaymentStatusPending.String())); err != nil {
			return "", fmt.Errorf("failed to reopen payment: %w", err)
		}
	default:
		return "", ErrBillAlreadyProcessed
	}

	if time.Since(bill.CreatedAt) > l.paymentWindow() {
		return "", ErrPaymentWindowExpired
	}

	return l.paymentGateway.BuildPaymentURL(bill, clientIP, time.Now())
}

func (l *billLogic) ProcessPaymentCallback(ctx context.Context, data *gateway.CallbackData) (*dto.PaymentCallbackResult, error) {
	bill, err := l.billRepo.GetBillByCode(ctx, data.BillCode)
	if err != nil {
		return nil, err
	}

	if !data.Succeeded() {
		if data.Retriable() {
			if bill.PaymentStatus != constants.PaymentStatusPending.String() {
				return l.callbackResult(ctx, bill.BillCode, true), nil
			}
			// The shopper can pay again inside the window, so the bill stays
			// PENDING instead of flipping to FAILED.
			if err := l.auditLogRepo.Create(ctx, buildPaymentFailedAuditLog(bill, data.ResponseCode)); err != nil {
				l.logger.Error("ProcessPaymentCallback: failed to create audit log", zap.Error(err))
			}
			return l.callbackResult(ctx, bill.BillCode, false), nil
		}
		if err := l.billRepo.MarkPaymentFailed(ctx, bill.BillCode); err != nil {
			if errors.Is(err, mongodb.ErrAlreadySettled) {
				return l.callbackResult(ctx, bill.BillCode, true), nil
			}
			return nil, err
		}
		if err := l.auditLogRepo.Create(ctx, buildPaymentFailedAuditLog(bill, data.ResponseCode)); err != nil {
			l.logger.Error("ProcessPaymentCallback: failed to create audit log", zap.Error(err))
		}
		return l.callbackResult(ctx, bill.BillCode, false), nil
	}

	if data.Amount != bill.Total {
		l.logger.Warn("ProcessPaymentCallback: amount mismatch",
			zap.String("billCode", bill.BillCode),
			zap.Int64("expected", bill.Total),
			zap.Int64("received", data.Amount),
		)
		return nil, ErrAmountMismatch
	}

	paidAt := data.PayDate
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	if err := l.billRepo.MarkPaid(ctx, bill.BillCode, data.TransactionNo, paidAt); err != nil {
		if errors.Is(err, mongodb.ErrAlreadySettled) {
			// Replayed notification. The first delivery already settled the
			// bill; acknowledge without touching anything.
			return l.callbackResult(ctx, bill.BillCode, true), nil
		}
		return nil, err
	}

	if err := l.auditLogRepo.Create(ctx, buildPaymentSettledAuditLog(bill, data.TransactionNo)); err != nil {
		l.logger.Error("ProcessPaymentCallback: failed to create audit log", zap.Error(err))
	}

	bill.PaymentStatus = constants.PaymentStatusPaid.String()
	if err := l.eventPublisher.PublishBillEvent(ctx, constants.NotificationOrderPaid, bill); err != nil {
		l.logger.Error("ProcessPaymentCallback: failed to publish event", zap.Error(err), zap.String("billCode", bill.BillCode))
	}

	return &dto.PaymentCallbackResult{
		BillCode:      bill.BillCode,
		PaymentStatus: bill.PaymentStatus,
	}, nil
}

func (l *billLogic) callbackResult(ctx context.Context, billCode string, alreadyFinal bool) *dto.PaymentCallbackResult {
	result := &dto.PaymentCallbackResult{BillCode: billCode, AlreadyFinal: alreadyFinal}
	if bill, err := l.billRepo.GetBillByCode(ctx, billCode); err == nil {
		result.PaymentStatus = bill.PaymentStatus
	}
	return result
}

func (l *billLogic) MarkShipped(ctx context.Context, billCode string, operator *models.User) error {
	bill, err := l.billRepo.GetBillByCode(ctx, billCode)
	if err != nil {
		return err
	}

	current := constants.ParseBillStatus(bill.Status)
	if !constants.CanTransitionBillStatus(current, constants.BillStatusShipping) {
		return ErrInvalidStatusTransition
	}

	// An online bill ships only after the money arrived.
	method := constants.ParsePaymentMethod(bill.PaymentMethod)
	if method.IsOnline() && constants.ParsePaymentStatus(bill.PaymentStatus) != constants.PaymentStatusPaid {
		return ErrPaymentNotSettled
	}

	if err := l.billRepo.UpdateBill(ctx, billCode,
		repository.WithStatus(constants.BillStatusShipping.String()),
		repository.WithUpdatedBy(operator),
	); err != nil {
		return fmt.Errorf("failed to mark bill shipped: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildBillStatusChangeAuditLog(operator, bill.ID, bill.Status, constants.BillStatusShipping.String())); err != nil {
		l.logger.Error("MarkShipped: failed to create audit log", zap.Error(err))
	}

	bill.Status = constants.BillStatusShipping.String()
	if err := l.eventPublisher.PublishBillEvent(ctx, constants.NotificationOrderShipping, bill); err != nil {
		l.logger.Error("MarkShipped: failed to publish event", zap.Error(err), zap.String("billCode", billCode))
	}
	return nil
}

func (l *billLogic) MarkCompleted(ctx context.Context, billCode string, operator *models.User) error {
	bill, err := l.billRepo.GetBillByCode(ctx, billCode)
	if err != nil {
		return err
	}

	current := constants.ParseBillStatus(bill.Status)
	if !constants.CanTransitionBillStatus(current, constants.BillStatusCompleted) {
		return ErrInvalidStatusTransition
	}

	_, err = l.txManager.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		if err := l.billRepo.UpdateBill(sessCtx, billCode,
			repository.WithStatus(constants.BillStatusCompleted.String()),
			repository.WithUpdatedBy(operator),
		); err != nil {
			return nil, fmt.Errorf("failed to mark bill completed: %w", err)
		}

		if err := l.accruePoints(sessCtx, bill); err != nil {
			return nil, err
		}

		if err := l.issueRewardVoucher(sessCtx, bill); err != nil {
			return nil, err
		}

		if err := l.auditLogRepo.Create(sessCtx, buildBillStatusChangeAuditLog(operator, bill.ID, bill.Status, constants.BillStatusCompleted.String())); err != nil {
			l.logger.Error("MarkCompleted: failed to create audit log", zap.Error(err))
			return nil, err
		}

		bill.Status = constants.BillStatusCompleted.String()
		if err := l.eventPublisher.PublishBillEvent(sessCtx, constants.NotificationOrderCompleted, bill); err != nil {
			l.logger.Error("MarkCompleted: failed to publish event", zap.Error(err), zap.String("billCode", billCode))
			return nil, err
		}

		return nil, nil
	})
	return err
}

// GetBillAudit returns the change history of a bill, newest first.
func (l *billLogic) GetBillAudit(ctx context.Context, billCode string) ([]*models.AuditLog, error) {
	bill, err := l.billRepo.GetBillByCode(ctx, billCode)
	if err != nil {
		return nil, err
	}
	return l.auditLogRepo.GetByEntityID(ctx, bill.ID)
}

// accruePoints credits the loyalty earn for a completed order.
func (l *billLogic) accruePoints(ctx context.Context, bill *models.Bill) error {
	if l.pricingCfg.EarnDivisor <= 0 {
		return nil
	}
	earned := bill.Total / l.pricingCfg.EarnDivisor
	if earned <= 0 {
		return nil
	}

	earnTx := &models.LoyaltyPointTransaction{
		UserID:      bill.User.UserId,
		Type:        constants.LoyaltyTxEarn,
		Points:      earned,
		Description: "points earned for completed order",
		BillCode:    bill.BillCode,
	}
	if err := l.loyaltyRepo.AppendTransaction(ctx, earnTx); err != nil {
		return fmt.Errorf("failed to accrue points: %w", err)
	}
	return nil
}

// issueRewardVoucher grants a personal fixed-amount voucher for large orders.
func (l *billLogic) issueRewardVoucher(ctx context.Context, bill *models.Bill) error {
	if l.pricingCfg.RewardThreshold <= 0 || bill.Total < l.pricingCfg.RewardThreshold {
		return nil
	}

	now := time.Now()
	userID := bill.User.UserId
	reward := &models.Voucher{
		ID:         primitive.NewObjectID(),
		Code:       "RW-" + bill.BillCode,
		Type:       constants.VoucherTypeFixedAmount.String(),
		Value:      l.pricingCfg.RewardVoucherValue,
		ExpiryDate: now.Add(30 * 24 * time.Hour),
		Status:     constants.VoucherStatusActive.String(),
		UserID:     &userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := l.voucherRepo.CreateVoucher(ctx, reward); err != nil {
		return fmt.Errorf("failed to issue reward voucher: %w", err)
	}
	return nil
}

// SweepExpiredPayments finds bank-transfer bills whose payment window lapsed,
// asks the gateway whether a settlement was missed, and cancels the rest. It
// returns the number of bills cancelled.
func (l *billLogic) SweepExpiredPayments(ctx context.Context) (int, error) {
	batchSize := l.windowCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	olderThan := time.Now().Add(-l.paymentWindow())
	bills, err := l.billRepo.FindExpiredBankTransfers(ctx, olderThan, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired bank transfers: %w", err)
	}

	cancelled := 0
	for _, bill := range bills {
		status, err := l.paymentGateway.QueryTransaction(ctx, bill.BillCode, bill.CreatedAt)
		if err != nil {
			// Leave the bill for the next sweep rather than cancelling on an
			// unreachable gateway.
			l.logger.Error("SweepExpiredPayments: gateway query failed", zap.Error(err), zap.String("billCode", bill.BillCode))
			continue
		}

		if status.Settled() {
			// The notification never arrived but the money did. Settle from
			// the query result instead of cancelling.
			if err := l.billRepo.MarkPaid(ctx, bill.BillCode, status.TransactionNo, time.Now()); err != nil && !errors.Is(err, mongodb.ErrAlreadySettled) {
				l.logger.Error("SweepExpiredPayments: failed to settle recovered payment", zap.Error(err), zap.String("billCode", bill.BillCode))
				continue
			}
			bill.PaymentStatus = constants.PaymentStatusPaid.String()
			if err := l.eventPublisher.PublishBillEvent(ctx, constants.NotificationOrderPaid, bill); err != nil {
				l.logger.Error("SweepExpiredPayments: failed to publish event", zap.Error(err), zap.String("billCode", bill.BillCode))
			}
			continue
		}

		if err := l.cancelAndCompensate(ctx, bill, models.SystemUser, "payment window expired"); err != nil {
			if errors.Is(err, ErrBillNotCancellable) {
				continue // Lost the race to a late settlement.
			}
			l.logger.Error("SweepExpiredPayments: failed to cancel bill", zap.Error(err), zap.String("billCode", bill.BillCode))
			continue
		}
		cancelled++
	}

	return cancelled, nil
}

func newBillView(bill *models.Bill) *dto.BillView {
	return &dto.BillView{
		Bill: bill,
		ViewStatus: constants.DeriveBillView(
			constants.ParseBillStatus(bill.Status),
			constants.ParsePaymentMethod(bill.PaymentMethod),
			constants.ParsePaymentStatus(bill.PaymentStatus),
		),
	}
}
