package constants

// LoyaltyTxType classifies entries in the loyalty point ledger. The ledger is
// append-only; a user's balance is the signed sum of their transactions.
const (
	LoyaltyTxEarn    = "EARN"
	LoyaltyTxRedeem  = "REDEEM"
	LoyaltyTxExpired = "EXPIRED"
)

// NotificationEvent names the order lifecycle events dispatched through the
// outbox to the notification service.
const (
	NotificationOrderCreated   = "order.created"
	NotificationOrderPaid      = "order.paid"
	NotificationOrderCancelled = "order.cancelled"
	NotificationOrderShipping  = "order.shipping"
	NotificationOrderCompleted = "order.completed"
)
