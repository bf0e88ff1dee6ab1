package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatsaga/internal/admission"
	invhandler "seatsaga/internal/inventory/handler"
	invrepo "seatsaga/internal/inventory/repository"
	invservice "seatsaga/internal/inventory/service"
	notifservice "seatsaga/internal/notifications/service"
	payservice "seatsaga/internal/payments/service"
	"seatsaga/internal/reservations/handler"
	"seatsaga/internal/reservations/repository"
	"seatsaga/internal/reservations/saga"
	"seatsaga/internal/reservations/validator"
	"seatsaga/pkg/config"
	"seatsaga/pkg/contracts"
	apperrors "seatsaga/pkg/errors"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/middleware"
	"seatsaga/pkg/model"
)

func newTestServer(t *testing.T, seeds map[string]int) *httptest.Server {
	t.Helper()

	cfg := config.FromEnv("app-test")
	cfg.Log = logger.Discard()
	log := cfg.Log

	inventoryProfile := fault.NewProfile("inventory")
	paymentsProfile := fault.NewProfile("payments")
	storeProfile := fault.NewProfile("store")
	notificationsProfile := fault.NewProfile("notifications")

	inventory := invservice.NewInventoryService(invrepo.NewMemoryLedger(seeds), inventoryProfile, log)
	store := repository.NewMemoryReservationRepository()
	orchestrator := saga.NewOrchestrator(
		inventory,
		payservice.NewPaymentService(paymentsProfile, log),
		repository.WithFaults(store, storeProfile),
		notifservice.NewNotificationService(notifservice.NewLogPublisher(log), notificationsProfile, log),
		saga.Policy{
			InventoryTimeout: time.Second,
			PaymentTimeout:   200 * time.Millisecond,
			StoreTimeout:     time.Second,
			StoreAttempts:    3,
			StoreRetryDelay:  time.Millisecond,
			NotifyTimeout:    time.Second,
		},
		log,
	)

	application := NewApplication(cfg)
	application.SetApp(contracts.Handlers{
		handler.NewReservationHandler(orchestrator, store, validator.NewReservationValidator(log),
			middleware.Admission(admission.NewController(5), log), log),
		invhandler.NewInventoryHandler(inventory, log),
		fault.NewHandler(log, inventoryProfile, paymentsProfile, storeProfile, notificationsProfile),
	})
	t.Cleanup(application.idempotencyStore.Stop)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func seatsLeft(t *testing.T, server *httptest.Server, eventID string) int {
	t.Helper()
	resp, err := http.Get(server.URL + "/inventory")
	if err != nil {
		t.Fatalf("GET /inventory failed: %v", err)
	}
	var listing model.InventoryListing
	decode(t, resp, &listing)
	return listing.Seats[eventID]
}

func TestReservationFlow(t *testing.T) {
	server := newTestServer(t, map[string]int{"A": 5})
	reserveURL := server.URL + "/api/v1/reserve"

	resp := postJSON(t, reserveURL, `{"user_id":"u1","event_id":"A","quantity":2}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var confirmed model.ReservationResponse
	decode(t, resp, &confirmed)
	if !confirmed.Reserved || confirmed.State != string(saga.StateNotified) {
		t.Errorf("unexpected confirmation: %+v", confirmed)
	}
	if !confirmed.Notification.Sent {
		t.Errorf("expected the notification to be sent")
	}
	if left := seatsLeft(t, server, "A"); left != 3 {
		t.Fatalf("expected 3 seats left, got %d", left)
	}

	stored, err := http.Get(server.URL + "/api/v1/reservations/" + confirmed.SagaID)
	if err != nil {
		t.Fatalf("GET reservation failed: %v", err)
	}
	var reservation model.Reservation
	decode(t, stored, &reservation)
	if reservation.Quantity != 2 || reservation.EventID != "A" {
		t.Errorf("unexpected stored reservation: %+v", reservation)
	}

	resp = postJSON(t, reserveURL, `{"user_id":"u2","event_id":"A","quantity":10}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var insufficient apperrors.ErrorResponse
	decode(t, resp, &insufficient)
	if insufficient.Code != apperrors.CodeInsufficientInventory {
		t.Errorf("expected %s, got %s", apperrors.CodeInsufficientInventory, insufficient.Code)
	}
	if left := seatsLeft(t, server, "A"); left != 3 {
		t.Fatalf("a refused reservation changed the ledger: %d seats left", left)
	}

	toggle := postJSON(t, server.URL+"/chaos/payments/fail", `{"enabled":true}`, nil)
	toggle.Body.Close()
	if toggle.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from chaos toggle, got %d", toggle.StatusCode)
	}

	resp = postJSON(t, reserveURL, `{"user_id":"u3","event_id":"A","quantity":1}`, nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	var declined apperrors.ErrorResponse
	decode(t, resp, &declined)
	if declined.Details["state"] != string(saga.StateCompensated) {
		t.Errorf("expected state %s, got %v", saga.StateCompensated, declined.Details["state"])
	}
	if left := seatsLeft(t, server, "A"); left != 3 {
		t.Errorf("compensation did not restore the hold: %d seats left", left)
	}
}

func TestReservationFlow_PaymentTimeoutReleasesHold(t *testing.T) {
	server := newTestServer(t, map[string]int{"A": 3})

	toggle := postJSON(t, server.URL+"/chaos/payments/latency", `{"seconds":1}`, nil)
	toggle.Body.Close()
	if toggle.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from chaos toggle, got %d", toggle.StatusCode)
	}

	resp := postJSON(t, server.URL+"/api/v1/reserve", `{"user_id":"u1","event_id":"A","quantity":1}`, nil)
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", resp.StatusCode)
	}
	var timedOut apperrors.ErrorResponse
	decode(t, resp, &timedOut)
	if timedOut.Code != apperrors.CodeDownstreamTimeout {
		t.Errorf("expected %s, got %s", apperrors.CodeDownstreamTimeout, timedOut.Code)
	}
	if left := seatsLeft(t, server, "A"); left != 3 {
		t.Errorf("expected the hold to be released, got %d seats left", left)
	}
}

func TestReservationFlow_IdempotentRetry(t *testing.T) {
	server := newTestServer(t, map[string]int{"A": 5})
	headers := map[string]string{middleware.IdempotencyKeyHeader: "retry-1"}
	body := `{"user_id":"u1","event_id":"A","quantity":1}`

	var sagaIDs []string
	for i := 0; i < 2; i++ {
		resp := postJSON(t, server.URL+"/api/v1/reserve", body, headers)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, resp.StatusCode)
		}
		var confirmed model.ReservationResponse
		decode(t, resp, &confirmed)
		sagaIDs = append(sagaIDs, confirmed.SagaID)
	}

	if sagaIDs[0] != sagaIDs[1] {
		t.Errorf("retry started a second saga: %v", sagaIDs)
	}
	if left := seatsLeft(t, server, "A"); left != 4 {
		t.Errorf("expected 4 seats left after one reservation, got %d", left)
	}
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
