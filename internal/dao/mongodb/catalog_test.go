package mongodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/fields"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
)

func TestCatalogDAO_DecrementStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	t.Run("sufficient stock decrements", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewCatalogDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		productID := seedProduct(t, testCtx, db, 5)

		require.NoError(t, dao.DecrementStock(testCtx, productID, 3))

		products, err := dao.GetProductsByIDs(testCtx, []primitive.ObjectID{productID})
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.EqualValues(t, 2, products[0].Stock)
	})

	t.Run("insufficient stock leaves no partial write", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewCatalogDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		productID := seedProduct(t, testCtx, db, 2)

		err := dao.DecrementStock(testCtx, productID, 3)
		require.ErrorIs(t, err, ErrInsufficientStock)

		products, err := dao.GetProductsByIDs(testCtx, []primitive.ObjectID{productID})
		require.NoError(t, err)
		require.EqualValues(t, 2, products[0].Stock)
	})

	t.Run("unknown product returns not found", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewCatalogDAO(db, zap.NewNop())

		err := dao.DecrementStock(context.Background(), primitive.NewObjectID(), 1)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent orders for the last unit admit one winner", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewCatalogDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		productID := seedProduct(t, testCtx, db, 1)

		const contenders = 8
		errs := make([]error, contenders)
		var wg sync.WaitGroup
		wg.Add(contenders)
		for i := 0; i < contenders; i++ {
			go func(i int) {
				defer wg.Done()
				errs[i] = dao.DecrementStock(testCtx, productID, 1)
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				require.ErrorIs(t, err, ErrInsufficientStock)
			}
		}
		require.Equal(t, 1, wins)

		products, err := dao.GetProductsByIDs(testCtx, []primitive.ObjectID{productID})
		require.NoError(t, err)
		require.EqualValues(t, 0, products[0].Stock)
	})
}

func TestCatalogDAO_RestoreStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupMongoIntegration(t)
	dao := NewCatalogDAO(db, zap.NewNop())

	testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	productID := seedProduct(t, testCtx, db, 0)

	require.NoError(t, dao.RestoreStock(testCtx, productID, 4))

	products, err := dao.GetProductsByIDs(testCtx, []primitive.ObjectID{productID})
	require.NoError(t, err)
	require.EqualValues(t, 4, products[0].Stock)
}

func seedProduct(t *testing.T, ctx context.Context, db *mongo.Database, stock int64) primitive.ObjectID {
	t.Helper()

	product := &models.Product{
		ID:        primitive.NewObjectID(),
		Name:      "ao thun ute",
		Price:     150_000,
		Stock:     stock,
		UpdatedAt: time.Now(),
	}
	_, err := db.Collection(CollectionProducts).InsertOne(ctx, product)
	require.NoError(t, err)

	// Sanity check the seed so race assertions start from a known state.
	var stored models.Product
	require.NoError(t, db.Collection(CollectionProducts).FindOne(ctx, bson.M{fields.FieldObjectId: product.ID}).Decode(&stored))
	require.Equal(t, stock, stored.Stock)

	return product.ID
}
