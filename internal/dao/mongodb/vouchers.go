package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func NewVouchersDAO(db *mongo.Database, logger *zap.Logger) *VouchersDAO {
	return &VouchersDAO{
		vouchersCollection: db.Collection(CollectionVouchers),
		logger:             logger.Named("VouchersDAO"),
	}
}

type VouchersDAO struct {
	vouchersCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *VouchersDAO) CreateVoucher(ctx context.Context, v *models.Voucher) error {
	_, err := d.vouchersCollection.InsertOne(ctx, v)
	if err != nil {
		d.logger.Error("CreateVoucher: InsertOne failed", zap.Error(err), zap.String("code", v.Code))
		return err
	}
	return nil
}

func (d *VouchersDAO) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := d.vouchersCollection.FindOne(ctx, bson.M{fields.FieldVoucherCode: code}).Decode(&voucher)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetVoucherByCode: FindOne failed", zap.Error(err), zap.String("code", code))
		return nil, err
	}
	return &voucher, nil
}

// RedeemVoucher consumes a voucher with a single conditional write. The
// status filter is the lock: of two concurrent redemptions only one matches,
// the other sees ErrVoucherConsumed.
func (d *VouchersDAO) RedeemVoucher(ctx context.Context, code string, billCode string, usedAt time.Time) error {
	filter := bson.M{
		fields.FieldVoucherCode: code,
		fields.FieldStatus:      constants.VoucherStatusActive.String(),
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:             constants.VoucherStatusUsed.String(),
			fields.FieldVoucherUsedAt:      usedAt,
			fields.FieldVoucherUsedForBill: billCode,
			fields.FieldUpdatedAt:          time.Now(),
		},
	}

	res, err := d.vouchersCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("RedeemVoucher: UpdateOne failed", zap.Error(err), zap.String("code", code))
		return err
	}
	if res.MatchedCount == 0 {
		exists := d.vouchersCollection.FindOne(ctx, bson.M{fields.FieldVoucherCode: code}).Err()
		if errors.Is(exists, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if exists != nil {
			d.logger.Error("RedeemVoucher: FindOne failed", zap.Error(exists), zap.String("code", code))
			return exists
		}
		return ErrVoucherConsumed
	}
	return nil
}

// ReleaseVoucher returns a voucher consumed by billCode to circulation. The
// used_for_bill filter keeps a release from touching a voucher meanwhile
// redeemed by a different bill; a no-op release is not an error.
func (d *VouchersDAO) ReleaseVoucher(ctx context.Context, code string, billCode string) error {
	filter := bson.M{
		fields.FieldVoucherCode:        code,
		fields.FieldStatus:             constants.VoucherStatusUsed.String(),
		fields.FieldVoucherUsedForBill: billCode,
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:    constants.VoucherStatusActive.String(),
			fields.FieldUpdatedAt: time.Now(),
		},
		"$unset": bson.M{
			fields.FieldVoucherUsedAt:      "",
			fields.FieldVoucherUsedForBill: "",
		},
	}

	_, err := d.vouchersCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("ReleaseVoucher: UpdateOne failed", zap.Error(err), zap.String("code", code), zap.String("billCode", billCode))
		return err
	}
	return nil
}

func (d *VouchersDAO) ExpireVouchers(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		fields.FieldStatus:            constants.VoucherStatusActive.String(),
		fields.FieldVoucherExpiryDate: bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:    constants.VoucherStatusExpired.String(),
			fields.FieldUpdatedAt: time.Now(),
		},
	}

	res, err := d.vouchersCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		d.logger.Error("ExpireVouchers: UpdateMany failed", zap.Error(err))
		return 0, err
	}
	return res.ModifiedCount, nil
}
