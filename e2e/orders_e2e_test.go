package e2e

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/app"
	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
	"github.com/nghiakieran/ute-shop-sub000/internal/db"
	"github.com/nghiakieran/ute-shop-sub000/internal/gateway"
	"github.com/nghiakieran/ute-shop-sub000/internal/limiter"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
	http_middleware "github.com/nghiakieran/ute-shop-sub000/internal/middleware/http"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"
	"github.com/nghiakieran/ute-shop-sub000/internal/provider"
	"github.com/nghiakieran/ute-shop-sub000/internal/service"
	"github.com/nghiakieran/ute-shop-sub000/pkg/jwt"
	"github.com/nghiakieran/ute-shop-sub000/pkg/snowflake"
)

const gatewaySecret = "e2e-gateway-secret"

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

// testStack is the full HTTP application wired against real containers. The
// background workers are deliberately not started; the flows under test drive
// every transition synchronously.
type testStack struct {
	server     *httptest.Server
	db         *mongo.Database
	jwtManager *jwt.Manager
}

func setupStack(t *testing.T) *testStack {
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

	dbName := fmt.Sprintf("uteshop_e2e_%d", time.Now().UnixNano())
	database := client.Database(dbName)
	t.Cleanup(func() {
		err := database.Drop(context.Background())
		var cmdErr mongo.CommandError
		if err != nil && (!errors.As(err, &cmdErr) || cmdErr.Code != 26) {
			require.NoError(t, err)
		}
	})

	redisContainer, err := tcRedis.Run(containerCtx, "redis:7.4.1")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, redisContainer.Terminate(context.Background()))
	})

	redisURL, err := redisContainer.ConnectionString(containerCtx)
	require.NoError(t, err)
	redisOpts, err := goredis.ParseURL(redisURL)
	require.NoError(t, err)
	redisClient := goredis.NewClient(redisOpts)
	t.Cleanup(func() {
		require.NoError(t, redisClient.Close())
	})

	logger := zap.NewNop()

	billsDAO := mongodb.NewBillsDAO(database, logger)
	vouchersDAO := mongodb.NewVouchersDAO(database, logger)
	loyaltyDAO := mongodb.NewLoyaltyDAO(database, logger)
	catalogDAO := mongodb.NewCatalogDAO(database, logger)
	cartsDAO := mongodb.NewCartsDAO(database, logger)
	auditLogDAO := mongodb.NewAuditLogDAO(database, logger)
	outboxDAO := mongodb.NewOutboxDAO(database, logger)

	pricingConfig := &conf.PricingConfig{
		TaxRatePercent:        10,
		ShippingFlatFee:       30_000,
		FreeShippingThreshold: 500_000,
		PointValue:            1_000,
		EarnDivisor:           10_000,
		RewardThreshold:       1_000_000,
		RewardVoucherValue:    100_000,
	}

	redemptionLogic := logic.NewRedemptionLogic(vouchersDAO, loyaltyDAO, logger)
	pricingLogic := logic.NewPricingLogic(cartsDAO, catalogDAO, redemptionLogic, pricingConfig, logger)
	eventPublisher := logic.NewNotificationEventPublisher(outboxDAO, logic.NotificationEventTopic("notifications"))

	payGateway := gateway.NewVNPayGateway(&conf.GatewayConfig{
		TmnCode:    "UTESHOP1",
		HashSecret: gatewaySecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		QueryURL:   "http://127.0.0.1:1/querydr",
		ReturnURL:  "https://shop.example.com/payment/return",
	}, logger)

	idGen, err := snowflake.NewGenerator(1)
	require.NoError(t, err)

	billLogic := logic.NewBillLogic(
		billsDAO, vouchersDAO, loyaltyDAO, catalogDAO, cartsDAO, auditLogDAO,
		pricingLogic, eventPublisher, payGateway,
		db.NewNoOpTransactionManager(), idGen, pricingConfig,
		&conf.PaymentWindowConfig{WindowHours: 24, BatchSize: 50},
		logger,
	)

	jwtManager, err := jwt.NewSymmetric([]byte("e2e-jwt-secret"), "ute-shop-e2e")
	require.NoError(t, err)

	limiterManager, err := limiter.NewManager(&conf.RateLimiterConfig{
		Default: conf.RateLimiterPolicy{Interval: "1m", Limit: 1000},
		Policies: map[string]conf.RateLimiterPolicy{
			"checkout": {Interval: "1m", Limit: 1000},
		},
	}, redisClient, provider.RedisNamespace("uteshop:e2e:"))
	require.NoError(t, err)

	router := app.NewRouter(
		service.NewOrderHandler(billLogic, logger),
		service.NewAdminOrderHandler(billLogic, logger),
		service.NewPaymentCallbackHandler(billLogic, payGateway, logger),
		http_middleware.NewAuthMiddleware(jwtManager),
		limiterManager,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testStack{server: server, db: database, jwtManager: jwtManager}
}

func (s *testStack) token(t *testing.T, userID primitive.ObjectID, name, role string) string {
	t.Helper()
	token, err := s.jwtManager.Generate(map[string]interface{}{
		"user_id": userID.Hex(),
		"name":    name,
		"role":    role,
	}, jwt.WithExpiresAt(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	return token
}

func (s *testStack) seedProduct(t *testing.T, name string, price, stock int64) primitive.ObjectID {
	t.Helper()
	product := &models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		UpdatedAt: time.Now(),
	}
	_, err := s.db.Collection(mongodb.CollectionProducts).InsertOne(context.Background(), product)
	require.NoError(t, err)
	return product.ID
}

func (s *testStack) seedCart(t *testing.T, userID, productID primitive.ObjectID, qty int64) {
	t.Helper()
	cart := &models.Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     []*models.CartItem{{ProductID: productID, Quantity: qty}},
		UpdatedAt: time.Now(),
	}
	_, err := s.db.Collection(mongodb.CollectionCarts).InsertOne(context.Background(), cart)
	require.NoError(t, err)
}

func (s *testStack) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

// signCallback reproduces the provider's HMAC-SHA512 over the sorted,
// url-encoded parameters.
func signCallback(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(params.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(gatewaySecret))
	mac.Write(buf.Bytes())
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *testStack) settleCallback(t *testing.T, billCode string, amount int64, responseCode string) (*http.Response, map[string]interface{}) {
	t.Helper()

	params := url.Values{}
	params.Set("vnp_TxnRef", billCode)
	params.Set("vnp_Amount", strconv.FormatInt(amount*100, 10))
	params.Set("vnp_ResponseCode", responseCode)
	params.Set("vnp_TransactionNo", "VNP14576891")
	params.Set("vnp_BankCode", "NCB")
	params.Set("vnp_PayDate", time.Now().Format("20060102150405"))
	params.Set("vnp_SecureHash", signCallback(params))

	return s.do(t, http.MethodGet, "/api/v1/payments/callback?"+params.Encode(), "", nil)
}

func orderBody(voucherCode string, points int64) map[string]interface{} {
	return map[string]interface{}{
		"payment_method": "BANKING",
		"shipping": map[string]string{
			"receiver_name":  "Nguyen Van A",
			"receiver_phone": "0905123456",
			"address":        "1 Vo Van Ngan, Thu Duc",
		},
		"voucher_code":   voucherCode,
		"loyalty_points": points,
	}
}

func dataField(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "envelope has no data object: %v", envelope)
	return data
}

func TestOrderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skip e2e in short mode")
	}

	stack := setupStack(t)

	userID := primitive.NewObjectID()
	customer := stack.token(t, userID, "Nguyen Van A", "customer")
	admin := stack.token(t, primitive.NewObjectID(), "Ops", "admin")

	productID := stack.seedProduct(t, "ao thun", 300_000, 10)
	stack.seedCart(t, userID, productID, 2)

	// Checkout: 600k subtotal, free shipping, 10% tax => 660k total.
	resp, envelope := stack.do(t, http.MethodPost, "/api/v1/orders", customer, orderBody("", 0))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := dataField(t, envelope)
	require.NotEmpty(t, data["payment_url"])

	bill, ok := data["bill"].(map[string]interface{})
	require.True(t, ok)
	billCode, _ := bill["bill_code"].(string)
	require.NotEmpty(t, billCode)
	require.EqualValues(t, 660_000, bill["total"])

	// Stock is reserved at checkout.
	var product models.Product
	require.NoError(t, stack.db.Collection(mongodb.CollectionProducts).
		FindOne(context.Background(), bson.M{"_id": productID}).Decode(&product))
	require.EqualValues(t, 8, product.Stock)

	// Unsettled bank transfer reads as UNPAID.
	resp, envelope = stack.do(t, http.MethodGet, "/api/v1/orders/"+billCode, customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "UNPAID", dataField(t, envelope)["view_status"])

	// Gateway settles the payment.
	resp, envelope = stack.settleCallback(t, billCode, 660_000, "00")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, dataField(t, envelope)["already_final"])

	// A replayed notification acknowledges without changing anything.
	resp, envelope = stack.settleCallback(t, billCode, 660_000, "00")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, dataField(t, envelope)["already_final"])

	// Customers cannot reach the console surface.
	resp, _ = stack.do(t, http.MethodPost, "/api/v1/console/orders/"+billCode+"/ship", customer, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = stack.do(t, http.MethodPost, "/api/v1/console/orders/"+billCode+"/ship", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = stack.do(t, http.MethodPost, "/api/v1/console/orders/"+billCode+"/complete", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = stack.do(t, http.MethodGet, "/api/v1/orders/"+billCode, customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "COMPLETED", dataField(t, envelope)["view_status"])

	// Completion accrued points: 660k / 10k earn divisor.
	var txn models.LoyaltyPointTransaction
	require.NoError(t, stack.db.Collection(mongodb.CollectionLoyaltyTxns).
		FindOne(context.Background(), bson.M{"user_id": userID}).Decode(&txn))
	require.EqualValues(t, 66, txn.Points)
}

func TestOrderCancelRestoresStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skip e2e in short mode")
	}

	stack := setupStack(t)

	userID := primitive.NewObjectID()
	customer := stack.token(t, userID, "Tran Thi B", "customer")

	productID := stack.seedProduct(t, "non bao hiem", 150_000, 5)
	stack.seedCart(t, userID, productID, 3)

	resp, envelope := stack.do(t, http.MethodPost, "/api/v1/orders", customer, orderBody("", 0))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	bill, _ := dataField(t, envelope)["bill"].(map[string]interface{})
	billCode, _ := bill["bill_code"].(string)
	require.NotEmpty(t, billCode)

	resp, _ = stack.do(t, http.MethodPost, "/api/v1/orders/"+billCode+"/cancel", customer,
		map[string]string{"reason": "doi y"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	require.NoError(t, stack.db.Collection(mongodb.CollectionProducts).
		FindOne(context.Background(), bson.M{"_id": productID}).Decode(&product))
	require.EqualValues(t, 5, product.Stock)

	// A cancelled bill cannot be paid late; the callback acknowledges the
	// final state instead.
	resp, envelope = stack.settleCallback(t, billCode, 525_000, "00")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, dataField(t, envelope)["already_final"])
}

func TestAuthRequired(t *testing.T) {
	if testing.Short() {
		t.Skip("skip e2e in short mode")
	}

	stack := setupStack(t)

	resp, _ := stack.do(t, http.MethodGet, "/api/v1/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
