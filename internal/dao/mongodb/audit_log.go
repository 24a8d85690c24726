package mongodb

import (
	"context"

	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewAuditLogDAO(db *mongo.Database, logger *zap.Logger) *AuditLogDAO {
	return &AuditLogDAO{
		collection: db.Collection(CollectionAuditLogs),
		logger:     logger.Named("AuditLogDAO"),
	}
}

type AuditLogDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func (d *AuditLogDAO) Create(ctx context.Context, log *models.AuditLog) error {
	_, err := d.collection.InsertOne(ctx, log)
	if err != nil {
		// We log this error but typically don't return it to the caller,
		// as audit logging failure should not fail the main business logic.
		d.logger.Error("Create: InsertOne failed", zap.Error(err))
	}
	return nil
}

func (d *AuditLogDAO) GetByEntityID(ctx context.Context, entityID primitive.ObjectID) ([]*models.AuditLog, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := d.collection.Find(ctx, bson.M{"entity_id": entityID}, findOpts)
	if err != nil {
		d.logger.Error("GetByEntityID: Find failed", zap.Error(err), zap.Stringer("entityID", entityID))
		return nil, err
	}

	var logs []*models.AuditLog
	if err = cursor.All(ctx, &logs); err != nil {
		d.logger.Error("GetByEntityID: cursor.All failed", zap.Error(err), zap.Stringer("entityID", entityID))
		return nil, err
	}

	return logs, nil
}
