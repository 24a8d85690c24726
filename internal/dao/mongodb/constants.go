package mongodb

const (
	CollectionBills       = "bills"
	CollectionVouchers    = "vouchers"
	CollectionLoyaltyTxns = "loyalty_transactions"
	CollectionProducts    = "products"
	CollectionCarts       = "carts"
	CollectionOutbox      = "outbox"
	CollectionAuditLogs   = "audit_logs"
)
