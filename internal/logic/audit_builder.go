package logic

import (
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogOption defines a function that configures an AuditLog object.
type AuditLogOption func(*models.AuditLog)

// WithReason is an option to add a reason to an audit log.
func WithReason(reason string) AuditLogOption {
	return func(log *models.AuditLog) {
		if reason != "" {
			log.Reason = reason
		}
	}
}

// NewAuditLog is a shared constructor for creating standardized audit log objects using the Option Pattern.
func NewAuditLog(user *models.User, action, entityType string, entityID primitive.ObjectID, before, after interface{}, opts ...AuditLogOption) *models.AuditLog {
	log := &models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     user.UserId,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes: map[string]interface{}{
			"before": before,
			"after":  after,
		},
		Timestamp: time.Now(),
	}

	for _, opt := range opts {
		opt(log)
	}

	return log
}

// buildCreateBillAuditLog creates an audit object for a new bill, including
// the stock each line reserved.
func buildCreateBillAuditLog(bill *models.Bill) *models.AuditLog {
	auditLog := NewAuditLog(bill.User, "CREATE_BILL", "bill", bill.ID, nil, bill)

	stockChanges := make([]map[string]interface{}, len(bill.Items))
	for i, item := range bill.Items {
		stockChanges[i] = map[string]interface{}{
			"product_id":   item.ProductID,
			"product_name": item.Name,
			"quantity":     -item.Quantity,
		}
	}

	auditLog.Changes = map[string]interface{}{
		"bill_details":  auditLog.Changes,
		"stock_changes": stockChanges,
	}

	return auditLog
}

// buildPaymentSettledAuditLog creates an audit object for a settled payment.
func buildPaymentSettledAuditLog(bill *models.Bill, gatewayTxnNo string) *models.AuditLog {
	before := map[string]interface{}{"payment_status": bill.PaymentStatus}
	after := map[string]interface{}{"payment_status": "PAID", "gateway_txn_no": gatewayTxnNo}

	return NewAuditLog(models.SystemUser, "SETTLE_PAYMENT", "bill", bill.ID, before, after)
}

// buildPaymentFailedAuditLog creates an audit object for a failed payment notification.
func buildPaymentFailedAuditLog(bill *models.Bill, responseCode string) *models.AuditLog {
	before := map[string]interface{}{"payment_status": bill.PaymentStatus}
	after := map[string]interface{}{"payment_status": "FAILED"}

	return NewAuditLog(models.SystemUser, "FAIL_PAYMENT", "bill", bill.ID, before, after, WithReason("gateway response code "+responseCode))
}

// buildCancelBillAuditLog creates an audit object for a bill cancellation.
func buildCancelBillAuditLog(operator *models.User, before, after *models.Bill, reason string) *models.AuditLog {
	return NewAuditLog(operator, "CANCEL_BILL", "bill", before.ID, before, after, WithReason(reason))
}

// buildBillStatusChangeAuditLog creates an audit object for a fulfillment status change.
func buildBillStatusChangeAuditLog(operator *models.User, billID primitive.ObjectID, oldStatus, newStatus string) *models.AuditLog {
	before := map[string]interface{}{"status": oldStatus}
	after := map[string]interface{}{"status": newStatus}

	return NewAuditLog(operator, "UPDATE_BILL_STATUS", "bill", billID, before, after)
}
