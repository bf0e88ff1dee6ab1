package handler

import (
	"context"
	"errors"
	"net/http"

	reserrors "seatsaga/internal/reservations/errors"
	"seatsaga/internal/reservations/saga"
	"seatsaga/internal/reservations/validator"
	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Reserver interface {
	Execute(ctx context.Context, req model.ReservationRequest) *saga.Result
}

type ReservationFinder interface {
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
}

// reserveRequest distinguishes an omitted quantity, which defaults to one
// seat, from an explicit zero.
type reserveRequest struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id"`
	EventID  string  `json:"event_id"`
	Quantity *int    `json:"quantity,omitempty"`
	Price    float64 `json:"price"`
	Email    string  `json:"email,omitempty"`
}

func (r reserveRequest) toModel() model.ReservationRequest {
	quantity := model.DefaultQuantity
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return model.ReservationRequest{
		ID:       r.ID,
		UserID:   r.UserID,
		EventID:  r.EventID,
		Quantity: quantity,
		Price:    r.Price,
		Email:    r.Email,
	}
}

type ReservationHandler struct {
	reserver  Reserver
	finder    ReservationFinder
	validator *validator.ReservationValidator
	gate      func(http.Handler) http.Handler
	log       *logger.Logger
}

// NewReservationHandler builds the boundary handler. gate wraps only the
// reserve route and is where admission control goes; nil leaves it open.
func NewReservationHandler(reserver Reserver, finder ReservationFinder, validator *validator.ReservationValidator, gate func(http.Handler) http.Handler, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		reserver:  reserver,
		finder:    finder,
		validator: validator,
		gate:      gate,
		log:       log,
	}
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body reserveRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.writeError(w, "Reserve", err)
		return
	}

	req := body.toModel()
	if err := h.validator.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeError(w, "Reserve", apperrors.Validation("Invalid reservation request", map[string]any{"errors": verrs}))
			return
		}
		h.writeError(w, "Reserve", apperrors.InvalidInput(err.Error()))
		return
	}

	if req.ID != "" {
		_, err := h.finder.FindByID(r.Context(), req.ID)
		if err == nil {
			h.writeError(w, "Reserve", apperrors.Conflict("Reservation id is already in use").
				WithDetails(map[string]any{"saga_id": req.ID}))
			return
		}
		if !errors.Is(err, reserrors.ErrNotFound) {
			h.log.Warn("Could not check reservation id, relying on the store", "saga_id", req.ID, "error", err)
		}
	}

	result := h.reserver.Execute(r.Context(), req)
	exec := result.Execution

	if result.Err != nil {
		h.writeError(w, "Reserve", result.Err.WithDetails(map[string]any{
			"saga_id": exec.ID,
			"state":   string(exec.State),
		}))
		return
	}

	if err := httputil.WriteSuccess(w, model.ReservationResponse{
		Status:       StatusSuccess,
		Message:      "Reservation confirmed",
		Reserved:     result.Reserved,
		SagaID:       exec.ID,
		State:        string(exec.State),
		Notification: result.Notification,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Reserve", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.finder.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			h.writeError(w, "GetByID", apperrors.NotFoundWithID("Reservation", id))
			return
		}
		h.writeError(w, "GetByID", apperrors.Internal("Failed to load reservation", err))
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	var reserve http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Reserve(w, r, nil)
	})
	if h.gate != nil {
		reserve = h.gate(reserve)
	}
	router.Handler(http.MethodPost, "/api/v1/reserve", reserve)
	router.GET("/api/v1/reservations/:id", h.GetByID)
}
