package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"seatsaga/pkg/logger"
)

func serve(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewHealthHandler(logger.Discard()), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReady(t *testing.T) {
	ok := Check{Name: "redis", Probe: func(context.Context) error { return nil }}
	down := Check{Name: "mongo", Probe: func(context.Context) error { return errors.New("no reachable servers") }}

	tests := []struct {
		name       string
		checks     []Check
		wantStatus int
		wantDeps   map[string]string
	}{
		{"no dependencies", nil, http.StatusOK, nil},
		{"all healthy", []Check{ok}, http.StatusOK, map[string]string{"redis": "ok"}},
		{"one down", []Check{ok, down}, http.StatusServiceUnavailable, map[string]string{"redis": "ok", "mongo": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, NewHealthHandler(logger.Discard(), tt.checks...), "/ready")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Dependencies) != len(tt.wantDeps) {
				t.Fatalf("expected %d dependencies, got %v", len(tt.wantDeps), resp.Dependencies)
			}
			for name, want := range tt.wantDeps {
				if resp.Dependencies[name] != want {
					t.Errorf("%s = %q, want %q", name, resp.Dependencies[name], want)
				}
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, NewHealthHandler(logger.Discard()), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
