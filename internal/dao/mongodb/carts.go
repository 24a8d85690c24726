package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func NewCartsDAO(db *mongo.Database, logger *zap.Logger) *CartsDAO {
	return &CartsDAO{
		cartsCollection: db.Collection(CollectionCarts),
		logger:          logger.Named("CartsDAO"),
	}
}

type CartsDAO struct {
	cartsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *CartsDAO) GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := d.cartsCollection.FindOne(ctx, bson.M{fields.FieldCartUserID: userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetCartByUser: FindOne failed", zap.Error(err), zap.Stringer("userID", userID))
		return nil, err
	}
	return &cart, nil
}

func (d *CartsDAO) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			fields.FieldCartItems: []*models.CartItem{},
			fields.FieldUpdatedAt: time.Now(),
		},
	}
	_, err := d.cartsCollection.UpdateOne(ctx, bson.M{fields.FieldCartUserID: userID}, update)
	if err != nil {
		d.logger.Error("ClearCart: UpdateOne failed", zap.Error(err), zap.Stringer("userID", userID))
		return err
	}
	return nil
}
