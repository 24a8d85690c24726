package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/constants"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
)

func TestBillsDAO_MarkPaid(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	t.Run("pending bill settles once", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bill := buildBankTransferBill("UTE-1001")
		_, err := dao.CreateBill(testCtx, bill)
		require.NoError(t, err)

		paidAt := time.Now().UTC().Truncate(time.Millisecond)
		err = dao.MarkPaid(testCtx, "UTE-1001", "VNP14576891", paidAt)
		require.NoError(t, err)

		stored, err := dao.GetBillByCode(testCtx, "UTE-1001")
		require.NoError(t, err)
		require.Equal(t, constants.PaymentStatusPaid.String(), stored.PaymentStatus)
		require.Equal(t, "VNP14576891", stored.GatewayTxnNo)
		require.NotNil(t, stored.PaidAt)
	})

	t.Run("second settlement is rejected and keeps the first txn no", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bill := buildBankTransferBill("UTE-1002")
		_, err := dao.CreateBill(testCtx, bill)
		require.NoError(t, err)

		require.NoError(t, dao.MarkPaid(testCtx, "UTE-1002", "VNP-FIRST", time.Now()))

		err = dao.MarkPaid(testCtx, "UTE-1002", "VNP-SECOND", time.Now())
		require.ErrorIs(t, err, ErrAlreadySettled)

		stored, err := dao.GetBillByCode(testCtx, "UTE-1002")
		require.NoError(t, err)
		require.Equal(t, "VNP-FIRST", stored.GatewayTxnNo)
	})

	t.Run("unknown bill returns not found", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		err := dao.MarkPaid(context.Background(), "UTE-MISSING", "VNP-X", time.Now())
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBillsDAO_CancelPending(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	t.Run("pending bill cancels", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bill := buildBankTransferBill("UTE-2001")
		_, err := dao.CreateBill(testCtx, bill)
		require.NoError(t, err)

		cancelled, err := dao.CancelPending(testCtx, "UTE-2001", models.SystemUser)
		require.NoError(t, err)
		require.Equal(t, constants.BillStatusCancelled.String(), cancelled.Status)
		require.NotNil(t, cancelled.UpdatedBy)
	})

	t.Run("paid bill is not cancellable", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bill := buildBankTransferBill("UTE-2002")
		_, err := dao.CreateBill(testCtx, bill)
		require.NoError(t, err)

		require.NoError(t, dao.MarkPaid(testCtx, "UTE-2002", "VNP-PAID", time.Now()))

		_, err = dao.CancelPending(testCtx, "UTE-2002", models.SystemUser)
		require.ErrorIs(t, err, ErrNotCancellable)

		stored, err := dao.GetBillByCode(testCtx, "UTE-2002")
		require.NoError(t, err)
		require.Equal(t, constants.BillStatusPending.String(), stored.Status)
	})

	t.Run("concurrent cancel and settle admit exactly one winner", func(t *testing.T) {
		db := setupMongoIntegration(t)
		dao := NewBillsDAO(db, zap.NewNop())

		testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bill := buildBankTransferBill("UTE-2003")
		_, err := dao.CreateBill(testCtx, bill)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var cancelErr, payErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = dao.CancelPending(testCtx, "UTE-2003", models.SystemUser)
		}()
		go func() {
			defer wg.Done()
			payErr = dao.MarkPaid(testCtx, "UTE-2003", "VNP-RACE", time.Now())
		}()
		wg.Wait()

		stored, err := dao.GetBillByCode(testCtx, "UTE-2003")
		require.NoError(t, err)

		// Exactly one writer may win; the loser gets a typed conflict.
		if payErr == nil {
			require.ErrorIs(t, cancelErr, ErrNotCancellable)
			require.Equal(t, constants.PaymentStatusPaid.String(), stored.PaymentStatus)
			require.Equal(t, constants.BillStatusPending.String(), stored.Status)
		} else {
			require.NoError(t, cancelErr)
			require.ErrorIs(t, payErr, ErrAlreadySettled)
			require.Equal(t, constants.BillStatusCancelled.String(), stored.Status)
		}
	})
}

func TestBillsDAO_GetBillsByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupMongoIntegration(t)
	dao := NewBillsDAO(db, zap.NewNop())

	testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID := primitive.NewObjectID()

	unpaid := buildBankTransferBill("UTE-3001")
	unpaid.User = &models.User{UserId: userID, Name: "Lan Pham"}
	_, err := dao.CreateBill(testCtx, unpaid)
	require.NoError(t, err)

	cash := buildBankTransferBill("UTE-3002")
	cash.User = &models.User{UserId: userID, Name: "Lan Pham"}
	cash.PaymentMethod = constants.PaymentMethodCash.String()
	cash.PaymentStatus = constants.PaymentStatusPaid.String()
	_, err = dao.CreateBill(testCtx, cash)
	require.NoError(t, err)

	other := buildBankTransferBill("UTE-3003")
	_, err = dao.CreateBill(testCtx, other)
	require.NoError(t, err)

	t.Run("unpaid view matches only pending bank transfers", func(t *testing.T) {
		bills, total, err := dao.GetBillsByUser(testCtx, &repository.ListBillsParams{
			UserID: userID,
			Status: constants.BillViewUnpaid,
			Limit:  10,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Len(t, bills, 1)
		require.Equal(t, "UTE-3001", bills[0].BillCode)
	})

	t.Run("search matches bill code", func(t *testing.T) {
		bills, total, err := dao.GetBillsByUser(testCtx, &repository.ListBillsParams{
			UserID: userID,
			Search: "ute-3002",
			Limit:  10,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Equal(t, "UTE-3002", bills[0].BillCode)
	})

	t.Run("stranger sees nothing", func(t *testing.T) {
		bills, total, err := dao.GetBillsByUser(testCtx, &repository.ListBillsParams{
			UserID: primitive.NewObjectID(),
			Limit:  10,
		})
		require.NoError(t, err)
		require.EqualValues(t, 0, total)
		require.Empty(t, bills)
	})
}

func TestBillsDAO_FindExpiredBankTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupMongoIntegration(t)
	dao := NewBillsDAO(db, zap.NewNop())

	testCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale := buildBankTransferBill("UTE-4001")
	stale.CreatedAt = time.Now().Add(-25 * time.Hour)
	_, err := dao.CreateBill(testCtx, stale)
	require.NoError(t, err)

	fresh := buildBankTransferBill("UTE-4002")
	_, err = dao.CreateBill(testCtx, fresh)
	require.NoError(t, err)

	bills, err := dao.FindExpiredBankTransfers(testCtx, time.Now().Add(-24*time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.Equal(t, "UTE-4001", bills[0].BillCode)
}

func buildBankTransferBill(billCode string) *models.Bill {
	now := time.Now().UTC()
	return &models.Bill{
		ID:       primitive.NewObjectID(),
		BillCode: billCode,
		User:     &models.User{UserId: primitive.NewObjectID(), Name: "Minh Tran"},
		Items: []*models.LineItem{
			{
				ProductID: primitive.NewObjectID(),
				Name:      "product-1",
				Quantity:  1,
				UnitPrice: 500_000,
				LineTotal: 500_000,
			},
		},
		Subtotal:      500_000,
		ShippingFee:   30_000,
		Tax:           50_000,
		Total:         580_000,
		PaymentMethod: constants.PaymentMethodBanking.String(),
		PaymentStatus: constants.PaymentStatusPending.String(),
		Status:        constants.BillStatusPending.String(),
		ReceiverName:  "Minh Tran",
		ReceiverPhone: "0901234567",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func configureDockerDesktop(t *testing.T) {
	t.Helper()

	if os.Getenv("DOCKER_HOST") != "" {
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	socket := filepath.Join(home, ".docker", "run", "docker.sock")
	if info, err := os.Stat(socket); err == nil && !info.IsDir() {
		t.Setenv("DOCKER_HOST", "unix://"+socket)
		t.Setenv("TESTCONTAINERS_DOCKER_SOCKET_OVERRIDE", socket)
	}
}

func setupMongoIntegration(t *testing.T) *mongo.Database {
	t.Helper()

	configureDockerDesktop(t)

	baseCtx := context.Background()
	containerCtx, cancel := context.WithTimeout(baseCtx, 5*time.Minute)
	t.Cleanup(cancel)

	mongoContainer, err := tcMongo.Run(containerCtx, "mongo:7.0.14")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mongoContainer.Terminate(context.Background()))
	})

	connString, err := mongoContainer.ConnectionString(containerCtx)
	require.NoError(t, err)

	client, err := mongo.Connect(containerCtx, options.Client().ApplyURI(connString))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Disconnect(context.Background()))
	})

	dbName := fmt.Sprintf("uteshop_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)
	t.Cleanup(func() {
		err := db.Drop(context.Background())
		var cmdErr mongo.CommandError
		if err != nil && (!errors.As(err, &cmdErr) || cmdErr.Code != 26) {
			require.NoError(t, err)
		}
	})

	return db
}
