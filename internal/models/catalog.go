package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the slice of the catalog the order flow reads: live price,
// campaign discount and stock. Stock is only ever changed through the
// conditional decrement in the catalog DAO.
type Product struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                    string             `bson:"name" json:"name"`
	Price                   int64              `bson:"price" json:"price"`
	CampaignDiscountPercent int64              `bson:"campaign_discount_percent,omitempty" json:"campaign_discount_percent,omitempty"`
	Stock                   int64              `bson:"stock" json:"stock"`
	UpdatedAt               time.Time          `bson:"updated_at" json:"updated_at"`
}
