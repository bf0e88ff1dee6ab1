package handler

import (
	"errors"
	"net/http"

	notiferrors "seatsaga/internal/notifications/errors"
	"seatsaga/internal/notifications/service"
	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service *service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service *service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var n model.Notification
	if err := httputil.DecodeJSON(r, &n); err != nil {
		h.writeError(w, "Send", err)
		return
	}

	result, err := h.service.Send(r.Context(), n)
	if err != nil {
		var appErr error
		switch {
		case errors.Is(err, notiferrors.ErrInvalidNotification):
			appErr = apperrors.InvalidInput(err.Error())
		case errors.Is(err, notiferrors.ErrUnavailable), errors.Is(err, notiferrors.ErrPublishFailed):
			appErr = apperrors.Wrap(err, apperrors.CodeUnavailable, "Notification service is unavailable", http.StatusServiceUnavailable)
		default:
			appErr = apperrors.Internal("Notification failed", err)
		}
		h.writeError(w, "Send", appErr)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Send", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/notifications/send", h.Send)
}
