package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
)

// AdminOrderHandler serves the console surface for moving orders through
// fulfilment.
type AdminOrderHandler struct {
	billLogic logic.BillLogic
	logger    *zap.Logger
}

func NewAdminOrderHandler(billLogic logic.BillLogic, logger *zap.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{
		billLogic: billLogic,
		logger:    logger.Named("AdminOrderHandler"),
	}
}

// Ship handles POST /api/v1/console/orders/{bill_code}/ship.
func (h *AdminOrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	operator, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	billCode := chi.URLParam(r, "bill_code")
	if err := h.billLogic.MarkShipped(r.Context(), billCode, operator); err != nil {
		h.logger.Warn("Ship: failed", zap.Error(err), zap.String("bill_code", billCode))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nil)
}

// AuditTrail handles GET /api/v1/console/orders/{bill_code}/audit.
func (h *AdminOrderHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	billCode := chi.URLParam(r, "bill_code")
	logs, err := h.billLogic.GetBillAudit(r.Context(), billCode)
	if err != nil {
		h.logger.Warn("AuditTrail: failed", zap.Error(err), zap.String("bill_code", billCode))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, logs)
}

// Complete handles POST /api/v1/console/orders/{bill_code}/complete.
func (h *AdminOrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	operator, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	billCode := chi.URLParam(r, "bill_code")
	if err := h.billLogic.MarkCompleted(r.Context(), billCode, operator); err != nil {
		h.logger.Warn("Complete: failed", zap.Error(err), zap.String("bill_code", billCode))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nil)
}
