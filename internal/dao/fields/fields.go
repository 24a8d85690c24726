package fields

const (
	FieldObjectId  = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldUpdatedBy = "updated_by"
	FieldStatus    = "status"

	FieldBillCode          = "bill_code"
	FieldBillUser          = "user"
	FieldBillUserUserID    = "user_id"
	FieldBillPaymentMethod = "payment_method"
	FieldBillPaymentStatus = "payment_status"
	FieldBillGatewayTxnNo  = "gateway_txn_no"
	FieldBillPaidAt        = "paid_at"
	FieldBillReceiverName  = "receiver_name"
	FieldBillReceiverPhone = "receiver_phone"
	FieldBillNote          = "note"

	FieldVoucherCode        = "code"
	FieldVoucherExpiryDate  = "expiry_date"
	FieldVoucherUsedAt      = "used_at"
	FieldVoucherUsedForBill = "used_for_bill"

	FieldLoyaltyUserID = "user_id"
	FieldLoyaltyPoints = "points"
	FieldLoyaltyType   = "type"

	FieldProductPrice = "price"
	FieldProductStock = "stock"

	FieldCartUserID = "user_id"
	FieldCartItems  = "items"
)
