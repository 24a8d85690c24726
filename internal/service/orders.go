package service

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/dto"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
)

// OrderHandler serves the storefront order surface: checkout, listing,
// cancellation, and payment retry.
type OrderHandler struct {
	billLogic logic.BillLogic
	logger    *zap.Logger
}

func NewOrderHandler(billLogic logic.BillLogic, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		billLogic: billLogic,
		logger:    logger.Named("OrderHandler"),
	}
}

type createOrderBody struct {
	PaymentMethod string `json:"payment_method"`
	Shipping      struct {
		ReceiverName  string `json:"receiver_name"`
		ReceiverPhone string `json:"receiver_phone"`
		Address       string `json:"address"`
		Note          string `json:"note"`
	} `json:"shipping"`
	VoucherCode   string `json:"voucher_code"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}

// Create handles POST /api/v1/orders. It turns the caller's cart into a bill
// and, for online payment methods, returns the gateway redirect URL.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body createOrderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Shipping.ReceiverName == "" || body.Shipping.ReceiverPhone == "" || body.Shipping.Address == "" {
		WriteHttpError(w, http.StatusBadRequest, "Missing shipping information")
		return
	}

	req := dto.NewCreateBillRequest(
		user,
		body.PaymentMethod,
		dto.NewShippingInfoRequest(body.Shipping.ReceiverName, body.Shipping.ReceiverPhone, body.Shipping.Address, body.Shipping.Note),
		body.VoucherCode,
		body.LoyaltyPoints,
	)

	resp, err := h.billLogic.CreateBill(r.Context(), req, clientIP(r))
	if err != nil {
		h.logger.Warn("Create: checkout failed", zap.Error(err), zap.Stringer("user_id", user.UserId))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/orders. Supported query parameters: status (a
// stored status or the derived UNPAID view), search, page, page_size.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.billLogic.ListBills(r.Context(), dto.NewListBillsRequest(
		user.UserId,
		q.Get("status"),
		q.Get("search"),
		page,
		pageSize,
	))
	if err != nil {
		h.logger.Error("List: failed to list bills", zap.Error(err), zap.Stringer("user_id", user.UserId))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}

// Get handles GET /api/v1/orders/{bill_code}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	billCode := chi.URLParam(r, "bill_code")
	view, err := h.billLogic.GetBill(r.Context(), billCode, user)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, view)
}

type cancelOrderBody struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/v1/orders/{bill_code}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body cancelOrderBody
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	billCode := chi.URLParam(r, "bill_code")
	if err := h.billLogic.CancelBill(r.Context(), dto.NewCancelBillRequest(billCode, user, body.Reason)); err != nil {
		h.logger.Warn("Cancel: failed", zap.Error(err), zap.String("bill_code", billCode), zap.Stringer("user_id", user.UserId))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nil)
}

// RetryPayment handles POST /api/v1/orders/{bill_code}/retry-payment. It
// issues a fresh gateway URL while the payment window is open.
func (h *OrderHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteHttpError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	billCode := chi.URLParam(r, "bill_code")
	paymentURL, err := h.billLogic.RetryPayment(r.Context(), billCode, user, clientIP(r))
	if err != nil {
		h.logger.Warn("RetryPayment: failed", zap.Error(err), zap.String("bill_code", billCode), zap.Stringer("user_id", user.UserId))
		WriteLogicError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"payment_url": paymentURL})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the socket
// peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
