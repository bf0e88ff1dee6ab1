package fault

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const (
	DefaultFlapRate = 0.5

	// MaxLatencySeconds bounds injected latency so it always fits a time.Duration.
	MaxLatencySeconds = 3600
)

type ToggleRequest struct {
	Enabled     *bool    `json:"enabled,omitempty"`
	Seconds     *float64 `json:"seconds,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
}

type ToggleResponse struct {
	Status       string   `json:"status"`
	Collaborator string   `json:"collaborator"`
	Changed      bool     `json:"changed"`
	Faults       Snapshot `json:"faults"`
}

type Handler struct {
	profiles map[string]*Profile
	log      *logger.Logger
}

func NewHandler(log *logger.Logger, profiles ...*Profile) *Handler {
	m := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p
	}
	return &Handler{profiles: m, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	names := make([]string, 0, len(h.profiles))
	for name := range h.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]Snapshot, len(names))
	for _, name := range names {
		out[name] = h.profiles[name].Snapshot()
	}
	if err := httputil.WriteSuccess(w, out); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile, ok := h.profiles[ps.ByName("collaborator")]
	if !ok {
		h.writeError(w, "Get", apperrors.NotFoundWithID("Collaborator", ps.ByName("collaborator")))
		return
	}
	if err := httputil.WriteSuccess(w, profile.Snapshot()); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("collaborator")
	profile, ok := h.profiles[name]
	if !ok {
		h.writeError(w, "Toggle", apperrors.NotFoundWithID("Collaborator", name))
		return
	}

	var req ToggleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Toggle", err)
		return
	}

	changed, err := Apply(profile, ps.ByName("fault"), req)
	if err != nil {
		h.writeError(w, "Toggle", err)
		return
	}

	snapshot := profile.Snapshot()
	h.log.Warn("Fault injection updated",
		"collaborator", name,
		"fault", ps.ByName("fault"),
		"changed", changed,
		"crash", snapshot.Crash,
		"latency_seconds", snapshot.LatencySeconds,
		"failure_rate", snapshot.FailureRate,
	)

	if err := httputil.WriteSuccess(w, ToggleResponse{
		Status:       "ok",
		Collaborator: name,
		Changed:      changed,
		Faults:       snapshot,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Toggle", "operation", "WriteSuccess", "error", err)
	}
}

// Apply maps a named fault toggle onto the profile and reports whether any
// cell changed. fail and down are aliases of crash; db_flap of flaky.
func Apply(p *Profile, fault string, req ToggleRequest) (bool, error) {
	switch fault {
	case "crash", "fail", "down":
		if req.Enabled == nil {
			return false, apperrors.InvalidInput("'enabled' is required")
		}
		return p.Crash.Set(*req.Enabled), nil

	case "latency":
		if req.Seconds == nil || !(*req.Seconds >= 0 && *req.Seconds <= MaxLatencySeconds) {
			return false, apperrors.InvalidInput(fmt.Sprintf("'seconds' must be between 0 and %d", MaxLatencySeconds))
		}
		return p.Delay.Set(time.Duration(*req.Seconds * float64(time.Second))), nil

	case "flaky", "db_flap":
		if req.Probability != nil {
			if *req.Probability < 0 || *req.Probability > 1 {
				return false, apperrors.InvalidInput("'probability' must be between 0 and 1")
			}
			return p.Flaky.Set(*req.Probability), nil
		}
		if req.Enabled == nil {
			return false, apperrors.InvalidInput("'enabled' or 'probability' is required")
		}
		if *req.Enabled {
			return p.Flaky.Set(DefaultFlapRate), nil
		}
		return p.Flaky.Set(0), nil

	default:
		return false, apperrors.NotFoundWithID("Fault", fault)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/chaos", h.List)
	router.GET("/chaos/:collaborator", h.Get)
	router.POST("/chaos/:collaborator/:fault", h.Toggle)
}
