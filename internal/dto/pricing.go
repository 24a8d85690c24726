package dto

import "github.com/nghiakieran/ute-shop-sub000/internal/models"

// Quote is the priced snapshot of a cart taken at checkout. Every amount is
// VND and already rounded; persisting these numbers verbatim keeps the bill's
// money invariant exact.
type Quote struct {
	Lines             []*models.LineItem `json:"lines"`
	Subtotal          int64              `json:"subtotal"`
	ShippingFee       int64              `json:"shipping_fee"`
	Tax               int64              `json:"tax"`
	Discount          int64              `json:"discount"`
	LoyaltyPointsUsed int64              `json:"loyalty_points_used"`
	LoyaltyValue      int64              `json:"loyalty_value"`
	Total             int64              `json:"total"`
	VoucherCode       string             `json:"voucher_code,omitempty"`
}
