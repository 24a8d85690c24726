//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/nghiakieran/ute-shop-sub000/internal/app"
	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
	"github.com/nghiakieran/ute-shop-sub000/internal/gateway"
	"github.com/nghiakieran/ute-shop-sub000/internal/limiter"
	"github.com/nghiakieran/ute-shop-sub000/internal/logger"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
	http_middleware "github.com/nghiakieran/ute-shop-sub000/internal/middleware/http"
	"github.com/nghiakieran/ute-shop-sub000/internal/provider"
	"github.com/nghiakieran/ute-shop-sub000/internal/service"
	"github.com/nghiakieran/ute-shop-sub000/internal/worker"
	"github.com/nghiakieran/ute-shop-sub000/pkg/snowflake"
)

// baseProviders holds the shared infrastructure components.
var baseProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "Port", "LogConfig", "MongodbConfig", "WorkerConfig", "RabbitMQConfig", "RedisConfig", "RateLimiterConfig", "PricingConfig", "GatewayConfig"),
	provider.ProvideAppMode,
	logger.NewLogger,
	mongodb.NewMongoDB,
	provider.ProvideDatabase,
	provider.ProvideMachineID,
	provider.ProvidePaymentWindowConfig,
	provider.ProvideNotificationEventTopic,
	provider.ProvideTransactionManager,
	provider.ProvidePublisher,
	provider.ProvideJwtGenerator,
	provider.ProvideRedisNamespace,
	provider.ProvideRedisClient,
	limiter.NewManager,
	snowflake.NewGenerator,
	gateway.NewVNPayGateway,
	wire.Bind(new(gateway.PaymentGateway), new(*gateway.VNPayGateway)),
	mongodb.NewBillsDAO,
	wire.Bind(new(repository.BillRepository), new(*mongodb.BillsDAO)),
	mongodb.NewVouchersDAO,
	wire.Bind(new(repository.VoucherRepository), new(*mongodb.VouchersDAO)),
	mongodb.NewLoyaltyDAO,
	wire.Bind(new(repository.LoyaltyRepository), new(*mongodb.LoyaltyDAO)),
	mongodb.NewCatalogDAO,
	wire.Bind(new(repository.CatalogRepository), new(*mongodb.CatalogDAO)),
	mongodb.NewCartsDAO,
	wire.Bind(new(repository.CartRepository), new(*mongodb.CartsDAO)),
	mongodb.NewAuditLogDAO,
	wire.Bind(new(repository.AuditLogRepository), new(*mongodb.AuditLogDAO)),
	mongodb.NewOutboxDAO,
	wire.Bind(new(repository.OutboxRepository), new(*mongodb.OutboxDAO)),
	logic.NewNotificationEventPublisher,
	logic.RedemptionLogicProviderSet,
	logic.PricingLogicProviderSet,
	logic.BillLogicProviderSet,
)

// provideWorkers collects the background workers for the app.
func provideWorkers(outbox *worker.OutboxProcessor, sweeper *worker.PaymentWindowSweeper, expirer *worker.VoucherExpirer) []worker.Worker {
	return []worker.Worker{outbox, sweeper, expirer}
}

func InitializeApp(appConfig *conf.AppConfig) (*app.App, func(), error) {
	wire.Build(
		baseProviders,
		service.NewOrderHandler,
		service.NewAdminOrderHandler,
		service.NewPaymentCallbackHandler,
		http_middleware.NewAuthMiddleware,
		worker.NewOutboxProcessor,
		worker.NewPaymentWindowSweeper,
		worker.NewVoucherExpirer,
		provideWorkers,
		app.NewRouter,
		app.NewApp,
	)
	return nil, nil, nil
}
