package logic

import (
	"context"
	"fmt"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/dto"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PricingLogic turns a user's cart into a priced snapshot. Catalog prices and
// campaign discounts are read exactly once here; the resulting quote is what
// gets persisted on the bill, so later catalog changes never touch an order.
type PricingLogic interface {
	BuildQuote(ctx context.Context, user *models.User, voucherCode string, loyaltyPoints int64) (*dto.Quote, error)
}

var _ PricingLogic = (*pricingLogic)(nil)

func NewPricingLogic(cartRepo repository.CartRepository, catalogRepo repository.CatalogRepository, redemption RedemptionLogic, pricingCfg *conf.PricingConfig, logger *zap.Logger) *pricingLogic {
	return &pricingLogic{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		redemption:  redemption,
		cfg:         pricingCfg,
		logger:      logger.Named("PricingLogic"),
	}
}

type pricingLogic struct {
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	redemption  RedemptionLogic
	cfg         *conf.PricingConfig
	logger      *zap.Logger
}

func (l *pricingLogic) BuildQuote(ctx context.Context, user *models.User, voucherCode string, loyaltyPoints int64) (*dto.Quote, error) {
	cart, err := l.cartRepo.GetCartByUser(ctx, user.UserId)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines, subtotal, err := l.buildLines(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	quote := &dto.Quote{
		Lines:    lines,
		Subtotal: subtotal,
	}

	if subtotal < l.cfg.FreeShippingThreshold || l.cfg.FreeShippingThreshold == 0 {
		quote.ShippingFee = l.cfg.ShippingFlatFee
	}
	quote.Tax = subtotal * l.cfg.TaxRatePercent / 100

	if voucherCode != "" {
		voucher, discount, err := l.redemption.ApplyVoucher(ctx, user, voucherCode, subtotal)
		if err != nil {
			return nil, err
		}
		quote.Discount = discount
		quote.VoucherCode = voucher.Code
	}

	payable := quote.Subtotal + quote.ShippingFee + quote.Tax - quote.Discount
	used, err := l.redemption.ApplyLoyaltyPoints(ctx, user, loyaltyPoints, payable, l.cfg.PointValue)
	if err != nil {
		return nil, err
	}
	quote.LoyaltyPointsUsed = used
	quote.LoyaltyValue = used * l.cfg.PointValue

	quote.Total = quote.Subtotal + quote.ShippingFee + quote.Tax - quote.Discount - quote.LoyaltyValue
	return quote, nil
}

// buildLines snapshots each cart line against the live catalog. Campaign
// discounts apply per unit and are frozen into the line.
func (l *pricingLogic) buildLines(ctx context.Context, items []*models.CartItem) ([]*models.LineItem, int64, error) {
	productIDs := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: invalid quantity %d", ErrProductUnavailable, item.Quantity)
		}
		productIDs[i] = item.ProductID
	}

	products, err := l.catalogRepo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	productsByID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	lines := make([]*models.LineItem, 0, len(items))
	var subtotal int64
	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: product %s", ErrProductUnavailable, item.ProductID.Hex())
		}
		if product.Stock < item.Quantity {
			return nil, 0, ErrOutOfStock
		}

		unitDiscount := product.Price * product.CampaignDiscountPercent / 100
		line := &models.LineItem{
			ProductID:    product.ID,
			Name:         product.Name,
			Quantity:     item.Quantity,
			UnitPrice:    product.Price,
			LineDiscount: unitDiscount * item.Quantity,
		}
		line.LineTotal = line.UnitPrice*line.Quantity - line.LineDiscount

		lines = append(lines, line)
		subtotal += line.LineTotal
	}

	return lines, subtotal, nil
}
