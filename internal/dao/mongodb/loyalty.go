package mongodb

import (
	"context"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func NewLoyaltyDAO(db *mongo.Database, logger *zap.Logger) *LoyaltyDAO {
	return &LoyaltyDAO{
		txnsCollection: db.Collection(CollectionLoyaltyTxns),
		logger:         logger.Named("LoyaltyDAO"),
	}
}

type LoyaltyDAO struct {
	txnsCollection *mongo.Collection
	logger         *zap.Logger
}

func (d *LoyaltyDAO) AppendTransaction(ctx context.Context, tx *models.LoyaltyPointTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := d.txnsCollection.InsertOne(ctx, tx)
	if err != nil {
		d.logger.Error("AppendTransaction: InsertOne failed", zap.Error(err), zap.Stringer("userID", tx.UserID))
		return err
	}
	return nil
}

// GetBalance sums the signed ledger for a user. A user with no entries has a
// zero balance, not an error.
func (d *LoyaltyDAO) GetBalance(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: fields.FieldLoyaltyUserID, Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "balance", Value: bson.D{{Key: "$sum", Value: "$" + fields.FieldLoyaltyPoints}}},
		}}},
	}

	cursor, err := d.txnsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error("GetBalance: Aggregate failed", zap.Error(err), zap.Stringer("userID", userID))
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Balance int64 `bson:"balance"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		d.logger.Error("GetBalance: cursor.All failed", zap.Error(err), zap.Stringer("userID", userID))
		return 0, err
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Balance, nil
}
