package constants

type BillStatus int
type PaymentStatus int

// BillStatus is the fulfillment state of a bill. Payment settlement is tracked
// separately by PaymentStatus; the two advance independently.
const (
	BillStatusUnknown BillStatus = iota
	BillStatusPending
	BillStatusShipping
	BillStatusCompleted
	BillStatusCancelled
)

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentStatusPending
	PaymentStatusPaid
	PaymentStatusFailed
)

// BillViewUnpaid is the derived listing view for bank-transfer bills that are
// awaiting settlement. It is never stored; see DeriveBillView.
const BillViewUnpaid = "UNPAID"

func (s BillStatus) String() string {
	switch s {
	case BillStatusPending:
		return "PENDING"
	case BillStatusShipping:
		return "SHIPPING"
	case BillStatusCompleted:
		return "COMPLETED"
	case BillStatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

var billStatusMap = map[string]BillStatus{
	"PENDING":   BillStatusPending,
	"SHIPPING":  BillStatusShipping,
	"COMPLETED": BillStatusCompleted,
	"CANCELLED": BillStatusCancelled,
	"UNKNOWN":   BillStatusUnknown,
}

func ParseBillStatus(s string) BillStatus {
	if status, ok := billStatusMap[s]; ok {
		return status
	}
	return BillStatusUnknown
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "PENDING"
	case PaymentStatusPaid:
		return "PAID"
	case PaymentStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

var paymentStatusMap = map[string]PaymentStatus{
	"PENDING": PaymentStatusPending,
	"PAID":    PaymentStatusPaid,
	"FAILED":  PaymentStatusFailed,
	"UNKNOWN": PaymentStatusUnknown,
}

func ParsePaymentStatus(s string) PaymentStatus {
	if status, ok := paymentStatusMap[s]; ok {
		return status
	}
	return PaymentStatusUnknown
}

// CanTransitionBillStatus reports whether a bill may move from o to n.
// COMPLETED and CANCELLED are terminal.
func CanTransitionBillStatus(o, n BillStatus) bool {
	switch o {
	case BillStatusPending:
		return n == BillStatusShipping || n == BillStatusCancelled
	case BillStatusShipping:
		return n == BillStatusCompleted || n == BillStatusCancelled
	default:
		return false
	}
}

// DeriveBillView maps stored status fields to the user-facing view. A
// bank-transfer bill that has not settled presents as UNPAID; everything else
// presents as its stored status.
func DeriveBillView(status BillStatus, method PaymentMethod, payment PaymentStatus) string {
	if status == BillStatusPending && method == PaymentMethodBanking && payment == PaymentStatusPending {
		return BillViewUnpaid
	}
	return status.String()
}
