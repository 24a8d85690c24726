package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoyaltyPointTransaction is one entry in a user's loyalty ledger. Points are
// signed by type: EARN entries are positive, REDEEM and EXPIRED entries are
// negative. Entries are appended, never mutated.
type LoyaltyPointTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type        string             `bson:"type" json:"type"`
	Points      int64              `bson:"points" json:"points"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	BillCode    string             `bson:"bill_code,omitempty" json:"bill_code,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
