package handler

import (
	"errors"
	"net/http"

	inverrors "seatsaga/internal/inventory/errors"
	"seatsaga/internal/inventory/service"
	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InventoryHandler struct {
	service *service.InventoryService
	log     *logger.Logger
}

func NewInventoryHandler(service *service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		log:     log,
	}
}

func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.InventoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Reserve", err)
		return
	}

	remaining, err := h.service.Reserve(r.Context(), req.EventID, req.Quantity)
	if err != nil {
		h.writeError(w, "Reserve", toAppError(err))
		return
	}

	if err := httputil.WriteSuccess(w, model.InventoryResponse{
		Status:    "reserved",
		EventID:   req.EventID,
		Remaining: remaining,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Reserve", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) Release(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.InventoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Release", err)
		return
	}

	remaining, err := h.service.Release(r.Context(), req.EventID, req.Quantity)
	if err != nil {
		h.writeError(w, "Release", toAppError(err))
		return
	}

	if err := httputil.WriteSuccess(w, model.InventoryResponse{
		Status:    "released",
		EventID:   req.EventID,
		Remaining: remaining,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Release", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.InventoryReset
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Reset", err)
		return
	}

	if err := h.service.Reset(r.Context(), req.EventID, req.Seats); err != nil {
		h.writeError(w, "Reset", toAppError(err))
		return
	}

	if err := httputil.WriteSuccess(w, model.InventoryResponse{
		Status:    "reset",
		EventID:   req.EventID,
		Remaining: req.Seats,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Reset", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	seats, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, "List", toAppError(err))
		return
	}

	if err := httputil.WriteSuccess(w, model.InventoryListing{
		Status: "ok",
		Seats:  seats,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// toAppError maps ledger sentinels onto the HTTP statuses remote callers
// classify by: 409 insufficient, 503 unavailable.
func toAppError(err error) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, inverrors.ErrInsufficientInventory):
		return apperrors.InsufficientInventory("Not enough seats available", err)
	case errors.Is(err, inverrors.ErrUnknownResource):
		return apperrors.NotFound("Event")
	case errors.Is(err, inverrors.ErrInvalidQuantity), errors.Is(err, inverrors.ErrInvalidResource):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, inverrors.ErrUnavailable):
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "Inventory is temporarily unavailable", http.StatusServiceUnavailable)
	default:
		return apperrors.Internal("Inventory operation failed", err)
	}
}

func (h *InventoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/inventory/reserve", h.Reserve)
	router.POST("/inventory/release", h.Release)
	router.POST("/admin/inventory/reset", h.Reset)
	router.GET("/inventory", h.List)
}
