package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Voucher is a single-use discount code. Status moves ACTIVE -> USED exactly
// once (at bill commit), or ACTIVE -> EXPIRED via the background sweep. A
// voucher scoped to a user carries that user's id; an empty UserID means any
// customer may redeem it.
type Voucher struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Code          string              `bson:"code" json:"code"`
	Type          string              `bson:"type" json:"type"`
	Value         int64               `bson:"value" json:"value"`
	MaxDiscount   int64               `bson:"max_discount,omitempty" json:"max_discount,omitempty"`
	MinOrderValue int64               `bson:"min_order_value,omitempty" json:"min_order_value,omitempty"`
	ExpiryDate    time.Time           `bson:"expiry_date" json:"expiry_date"`
	Status        string              `bson:"status" json:"status"`
	UserID        *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UsedAt        *time.Time          `bson:"used_at,omitempty" json:"used_at,omitempty"`
	UsedForBill   string              `bson:"used_for_bill,omitempty" json:"used_for_bill,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}
