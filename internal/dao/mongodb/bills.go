package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewBillsDAO(db *mongo.Database, logger *zap.Logger) *BillsDAO {
	return &BillsDAO{
		billsCollection: db.Collection(CollectionBills),
		logger:          logger.Named("BillsDAO"),
	}
}

type BillsDAO struct {
	billsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BillsDAO) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	res, err := d.billsCollection.InsertOne(ctx, bill)
	if err != nil {
		d.logger.Error("CreateBill: InsertOne failed", zap.Error(err), zap.String("billCode", bill.BillCode))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *BillsDAO) GetBillByCode(ctx context.Context, billCode string) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, bson.M{fields.FieldBillCode: billCode}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetBillByCode: FindOne failed", zap.Error(err), zap.String("billCode", billCode))
		return nil, err
	}
	return &bill, nil
}

func (d *BillsDAO) GetBillsByUser(ctx context.Context, params *repository.ListBillsParams) ([]*models.Bill, int64, error) {
	filter := bson.M{
		fmt.Sprintf("%s.%s", fields.FieldBillUser, fields.FieldBillUserUserID): params.UserID,
	}

	// UNPAID is a projection over three stored fields, not a stored status.
	switch params.Status {
	case "":
	case constants.BillViewUnpaid:
		filter[fields.FieldStatus] = constants.BillStatusPending.String()
		filter[fields.FieldBillPaymentMethod] = constants.PaymentMethodBanking.String()
		filter[fields.FieldBillPaymentStatus] = constants.PaymentStatusPending.String()
	default:
		filter[fields.FieldStatus] = params.Status
	}

	if params.Search != "" {
		pattern := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = []bson.M{
			{fields.FieldBillCode: pattern},
			{fields.FieldBillReceiverName: pattern},
		}
	}

	total, err := d.billsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("GetBillsByUser: CountDocuments failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Bill{}, 0, nil
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: -1}}).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))

	cursor, err := d.billsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		d.logger.Error("GetBillsByUser: Find failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}

	var bills []*models.Bill
	if err = cursor.All(ctx, &bills); err != nil {
		d.logger.Error("GetBillsByUser: cursor.All failed", zap.Error(err), zap.Any("filter", filter))
		return nil, 0, err
	}

	return bills, total, nil
}

func (d *BillsDAO) UpdateBill(ctx context.Context, billCode string, opts ...repository.UpdateOption) error {
	updateData := repository.NewUpdateOptions()
	for _, opt := range opts {
		opt(updateData)
	}

	if len(updateData.SetFields) == 0 {
		return nil
	}
	updateData.SetFields[fields.FieldUpdatedAt] = time.Now()

	res, err := d.billsCollection.UpdateOne(ctx, bson.M{fields.FieldBillCode: billCode}, bson.M{"$set": updateData.SetFields})
	if err != nil {
		d.logger.Error("UpdateBill: UpdateOne failed", zap.Error(err), zap.String("billCode", billCode))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid settles a bill. The filter makes the write conditional: a second
// callback for the same bill matches nothing and the stored gateway
// transaction number survives untouched, and a callback that lost a race
// against a cancellation cannot settle the cancelled bill.
func (d *BillsDAO) MarkPaid(ctx context.Context, billCode string, gatewayTxnNo string, paidAt time.Time) error {
	filter := bson.M{
		fields.FieldBillCode:          billCode,
		fields.FieldBillPaymentStatus: constants.PaymentStatusPending.String(),
		fields.FieldStatus:            bson.M{"$ne": constants.BillStatusCancelled.String()},
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldBillPaymentStatus: constants.PaymentStatusPaid.String(),
			fields.FieldBillGatewayTxnNo:  gatewayTxnNo,
			fields.FieldBillPaidAt:        paidAt,
			fields.FieldUpdatedAt:         time.Now(),
		},
	}

	res, err := d.billsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("MarkPaid: UpdateOne failed", zap.Error(err), zap.String("billCode", billCode))
		return err
	}
	if res.MatchedCount == 0 {
		return d.classifyMiss(ctx, billCode, ErrAlreadySettled)
	}
	return nil
}

func (d *BillsDAO) MarkPaymentFailed(ctx context.Context, billCode string) error {
	filter := bson.M{
		fields.FieldBillCode:          billCode,
		fields.FieldBillPaymentStatus: constants.PaymentStatusPending.String(),
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldBillPaymentStatus: constants.PaymentStatusFailed.String(),
			fields.FieldUpdatedAt:         time.Now(),
		},
	}

	res, err := d.billsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("MarkPaymentFailed: UpdateOne failed", zap.Error(err), zap.String("billCode", billCode))
		return err
	}
	if res.MatchedCount == 0 {
		return d.classifyMiss(ctx, billCode, ErrAlreadySettled)
	}
	return nil
}

// CancelPending cancels a bill with a single conditional write. The filter
// re-checks status and payment_status at commit time, so a cancellation racing
// a settlement callback loses cleanly instead of cancelling a paid bill.
func (d *BillsDAO) CancelPending(ctx context.Context, billCode string, operator *models.User) (*models.Bill, error) {
	filter := bson.M{
		fields.FieldBillCode:          billCode,
		fields.FieldStatus:            constants.BillStatusPending.String(),
		fields.FieldBillPaymentStatus: bson.M{"$ne": constants.PaymentStatusPaid.String()},
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:    constants.BillStatusCancelled.String(),
			fields.FieldUpdatedAt: time.Now(),
			fields.FieldUpdatedBy: operator,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := d.billsCollection.FindOneAndUpdate(ctx, filter, update, opts)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return nil, d.classifyMiss(ctx, billCode, ErrNotCancellable)
		}
		d.logger.Error("CancelPending: FindOneAndUpdate failed", zap.Error(res.Err()), zap.String("billCode", billCode))
		return nil, res.Err()
	}

	var bill models.Bill
	if err := res.Decode(&bill); err != nil {
		d.logger.Error("CancelPending: Decode failed", zap.Error(err), zap.String("billCode", billCode))
		return nil, err
	}
	return &bill, nil
}

func (d *BillsDAO) FindExpiredBankTransfers(ctx context.Context, olderThan time.Time, limit int) ([]*models.Bill, error) {
	filter := bson.M{
		fields.FieldStatus:            constants.BillStatusPending.String(),
		fields.FieldBillPaymentMethod: constants.PaymentMethodBanking.String(),
		fields.FieldBillPaymentStatus: constants.PaymentStatusPending.String(),
		fields.FieldCreatedAt:         bson.M{"$lt": olderThan},
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := d.billsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		d.logger.Error("FindExpiredBankTransfers: Find failed", zap.Error(err), zap.Time("olderThan", olderThan))
		return nil, err
	}

	var bills []*models.Bill
	if err = cursor.All(ctx, &bills); err != nil {
		d.logger.Error("FindExpiredBankTransfers: cursor.All failed", zap.Error(err))
		return nil, err
	}

	return bills, nil
}

// classifyMiss tells a missing bill apart from one that exists but no longer
// matches the conditional filter.
func (d *BillsDAO) classifyMiss(ctx context.Context, billCode string, conflictErr error) error {
	err := d.billsCollection.FindOne(ctx, bson.M{fields.FieldBillCode: billCode}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		d.logger.Error("classifyMiss: FindOne failed", zap.Error(err), zap.String("billCode", billCode))
		return err
	}
	return conflictErr
}
