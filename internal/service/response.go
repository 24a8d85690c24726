package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nghiakieran/ute-shop-sub000/internal/dao/mongodb"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
)

// WriteSuccess writes a standard JSON success envelope.
func WriteSuccess(w http.ResponseWriter, httpCode int, data any) {
	resp := map[string]interface{}{
		"status": "success",
		"code":   httpCode,
	}
	if data != nil {
		resp["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteHttpError writes a standard JSON error response to the http.ResponseWriter.
func WriteHttpError(w http.ResponseWriter, httpCode int, message string) {
	resp := map[string]interface{}{
		"status":  "error",
		"code":    httpCode,
		"message": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// WriteLogicError maps a logic-layer error to an HTTP status and writes it.
func WriteLogicError(w http.ResponseWriter, err error) {
	WriteHttpError(w, httpStatusFromError(err), err.Error())
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrEmptyCart),
		errors.Is(err, logic.ErrInvalidPaymentMethod),
		errors.Is(err, logic.ErrMinOrderValueNotMet),
		errors.Is(err, logic.ErrInsufficientPoints),
		errors.Is(err, logic.ErrVoucherNotFound),
		errors.Is(err, logic.ErrVoucherNotApplicable),
		errors.Is(err, logic.ErrAmountMismatch):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrOutOfStock),
		errors.Is(err, logic.ErrProductUnavailable),
		errors.Is(err, logic.ErrVoucherUsed),
		errors.Is(err, logic.ErrVoucherExpired),
		errors.Is(err, logic.ErrBillNotCancellable),
		errors.Is(err, logic.ErrBillAlreadyProcessed),
		errors.Is(err, logic.ErrInvalidStatusTransition),
		errors.Is(err, logic.ErrPaymentNotSettled):
		return http.StatusConflict
	case errors.Is(err, logic.ErrPaymentWindowExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
