package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nghiakieran/ute-shop-sub000/internal/limiter"
	http_middleware "github.com/nghiakieran/ute-shop-sub000/internal/middleware/http"
	"github.com/nghiakieran/ute-shop-sub000/internal/service"
)

// NewRouter wires every HTTP surface onto one chi router: the public
// storefront API, the unauthenticated gateway callback, and the console API.
func NewRouter(
	orderHandler *service.OrderHandler,
	adminOrderHandler *service.AdminOrderHandler,
	callbackHandler *service.PaymentCallbackHandler,
	authMiddleware http_middleware.AuthMiddleware,
	limiterManager *limiter.Manager,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// The gateway calls back without credentials; the HMAC on the query
	// string is verified inside the handler.
	r.Method(http.MethodGet, "/api/v1/payments/callback", callbackHandler)

	checkoutRateLimiter := http_middleware.CreateRateLimitMiddleware(limiterManager, "checkout")
	retryRateLimiter := http_middleware.CreateRateLimitMiddleware(limiterManager, "retry_payment")

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(checkoutRateLimiter).Post("/", orderHandler.Create)
		r.Get("/", orderHandler.List)
		r.Get("/{bill_code}", orderHandler.Get)
		r.Post("/{bill_code}/cancel", orderHandler.Cancel)
		r.With(retryRateLimiter).Post("/{bill_code}/retry-payment", orderHandler.RetryPayment)
	})

	r.Route("/api/v1/console/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(http_middleware.RequireAdmin)

		r.Post("/{bill_code}/ship", adminOrderHandler.Ship)
		r.Post("/{bill_code}/complete", adminOrderHandler.Complete)
		r.Get("/{bill_code}/audit", adminOrderHandler.AuditTrail)
	})

	return r
}
