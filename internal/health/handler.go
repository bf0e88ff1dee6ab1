package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/metrics"
)

const DefaultCheckTimeout = 2 * time.Second

// Check reports whether one dependency can serve traffic.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

func MongoCheck(client *mongo.Client) Check {
	return Check{
		Name: "mongo",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}
}

func RedisCheck(client *redis.Client) Check {
	return Check{
		Name: "redis",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	checks  []Check
	timeout time.Duration
	log     *logger.Logger
}

func NewHealthHandler(log *logger.Logger, checks ...Check) *HealthHandler {
	sorted := append([]Check(nil), checks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &HealthHandler{
		checks:  sorted,
		timeout: DefaultCheckTimeout,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{Status: "ready"}
	if len(h.checks) > 0 {
		resp.Dependencies = make(map[string]string, len(h.checks))
	}

	for _, check := range h.checks {
		if err := check.Probe(ctx); err != nil {
			h.log.Error("Dependency health check failed",
				"dependency", check.Name,
				"error", err,
				"path", r.URL.Path,
			)
			resp.Dependencies[check.Name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[check.Name] = "ok"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())
}
