package handler

import (
	"errors"
	"net/http"

	payerrors "seatsaga/internal/payments/errors"
	"seatsaga/internal/payments/service"
	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	service *service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service *service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var charge model.Charge
	if err := httputil.DecodeJSON(r, &charge); err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	receipt, err := h.service.Charge(r.Context(), charge)
	if err != nil {
		var appErr error
		switch {
		case errors.Is(err, payerrors.ErrInvalidCharge):
			appErr = apperrors.InvalidInput(err.Error())
		case errors.Is(err, payerrors.ErrDeclined):
			appErr = apperrors.Wrap(err, apperrors.CodeUnavailable, "Payment processor is unavailable", http.StatusServiceUnavailable)
		default:
			appErr = apperrors.Internal("Payment failed", err)
		}
		h.writeError(w, "Pay", appErr)
		return
	}

	if err := httputil.WriteSuccess(w, receipt); err != nil {
		h.log.Error("failed to write success response", "handler", "Pay", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/payments/pay", h.Pay)
}
