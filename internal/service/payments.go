package service

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/gateway"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
)

// PaymentCallbackHandler receives the gateway's server-to-server notification.
// The endpoint is unauthenticated; the HMAC signature on the query string is
// the only thing we trust.
type PaymentCallbackHandler struct {
	billLogic      logic.BillLogic
	paymentGateway gateway.PaymentGateway
	logger         *zap.Logger
}

func NewPaymentCallbackHandler(billLogic logic.BillLogic, paymentGateway gateway.PaymentGateway, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		billLogic:      billLogic,
		paymentGateway: paymentGateway,
		logger:         logger.Named("PaymentCallbackHandler"),
	}
}

// ServeHTTP implements the http.Handler interface for GET /api/v1/payments/callback.
func (h *PaymentCallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := h.paymentGateway.ParseCallback(r.URL.Query())
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			h.logger.Warn("callback rejected: bad signature", zap.String("remote", r.RemoteAddr))
			WriteHttpError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		WriteHttpError(w, http.StatusBadRequest, "Malformed callback")
		return
	}

	result, err := h.billLogic.ProcessPaymentCallback(r.Context(), data)
	if err != nil {
		h.logger.Error("callback processing failed", zap.Error(err), zap.String("bill_code", data.BillCode))
		WriteLogicError(w, err)
		return
	}

	if result.AlreadyFinal {
		h.logger.Info("callback replayed for settled bill", zap.String("bill_code", result.BillCode))
	}
	WriteSuccess(w, http.StatusOK, result)
}
