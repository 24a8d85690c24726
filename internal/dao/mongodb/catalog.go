package mongodb

import (
	"context"
	"errors"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func NewCatalogDAO(db *mongo.Database, logger *zap.Logger) *CatalogDAO {
	return &CatalogDAO{
		productsCollection: db.Collection(CollectionProducts),
		logger:             logger.Named("CatalogDAO"),
	}
}

type CatalogDAO struct {
	productsCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *CatalogDAO) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	cursor, err := d.productsCollection.Find(ctx, bson.M{fields.FieldObjectId: bson.M{"$in": ids}})
	if err != nil {
		d.logger.Error("GetProductsByIDs: Find failed", zap.Error(err), zap.Int("count", len(ids)))
		return nil, err
	}

	var products []*models.Product
	if err = cursor.All(ctx, &products); err != nil {
		d.logger.Error("GetProductsByIDs: cursor.All failed", zap.Error(err))
		return nil, err
	}

	return products, nil
}

// DecrementStock reserves qty units in one conditional write. The $gte filter
// means the check and the decrement are the same operation; two concurrent
// orders racing for the last unit cannot both win.
func (d *CatalogDAO) DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	filter := bson.M{
		fields.FieldObjectId:     productID,
		fields.FieldProductStock: bson.M{"$gte": qty},
	}
	update := bson.M{"$inc": bson.M{fields.FieldProductStock: -qty}}

	res, err := d.productsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("DecrementStock: UpdateOne failed", zap.Error(err), zap.Stringer("productID", productID), zap.Int64("qty", qty))
		return err
	}
	if res.MatchedCount == 0 {
		exists := d.productsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: productID}).Err()
		if errors.Is(exists, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if exists != nil {
			d.logger.Error("DecrementStock: FindOne failed", zap.Error(exists), zap.Stringer("productID", productID))
			return exists
		}
		return ErrInsufficientStock
	}
	return nil
}

func (d *CatalogDAO) RestoreStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	filter := bson.M{fields.FieldObjectId: productID}
	update := bson.M{"$inc": bson.M{fields.FieldProductStock: qty}}

	res, err := d.productsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("RestoreStock: UpdateOne failed", zap.Error(err), zap.Stringer("productID", productID), zap.Int64("qty", qty))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
