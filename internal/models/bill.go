package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill is the persisted order record. All monetary fields are VND and are
// derived exactly once at creation; nothing here is recomputed on read. The
// invariant Total = Subtotal + ShippingFee + Tax - Discount -
// LoyaltyPointsUsed*pointValue must hold for the lifetime of the document.
type Bill struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BillCode          string             `bson:"bill_code" json:"bill_code"`
	User              *User              `bson:"user" json:"user"`
	Items             []*LineItem        `bson:"items" json:"items"`
	Subtotal          int64              `bson:"subtotal" json:"subtotal"`
	ShippingFee       int64              `bson:"shipping_fee" json:"shipping_fee"`
	Tax               int64              `bson:"tax" json:"tax"`
	Discount          int64              `bson:"discount" json:"discount"`
	LoyaltyPointsUsed int64              `bson:"loyalty_points_used" json:"loyalty_points_used"`
	Total             int64              `bson:"total" json:"total"`
	VoucherCode       string             `bson:"voucher_code,omitempty" json:"voucher_code,omitempty"`
	PaymentMethod     string             `bson:"payment_method" json:"payment_method"`
	PaymentStatus     string             `bson:"payment_status" json:"payment_status"`
	Status            string             `bson:"status" json:"status"`
	GatewayTxnNo      string             `bson:"gateway_txn_no,omitempty" json:"-"`
	PaidAt            *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	ReceiverName      string             `bson:"receiver_name" json:"receiver_name"`
	ReceiverPhone     string             `bson:"receiver_phone" json:"receiver_phone"`
	ShippingAddress   string             `bson:"shipping_address" json:"shipping_address"`
	Note              string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
	UpdatedBy         *User              `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// LineItem is a point-in-time snapshot of one cart line. Price and discount
// are frozen at order creation and never re-read from the catalog.
type LineItem struct {
	ProductID    primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name         string             `bson:"name" json:"name"`
	Quantity     int64              `bson:"quantity" json:"quantity"`
	UnitPrice    int64              `bson:"unit_price" json:"unit_price"`
	LineDiscount int64              `bson:"line_discount" json:"line_discount"`
	LineTotal    int64              `bson:"line_total" json:"line_total"`
}
