package main

import (
	"seatsaga/internal/admission"
	"seatsaga/internal/bootstrap"
	invhandler "seatsaga/internal/inventory/handler"
	invservice "seatsaga/internal/inventory/service"
	notifhandler "seatsaga/internal/notifications/handler"
	notifservice "seatsaga/internal/notifications/service"
	payhandler "seatsaga/internal/payments/handler"
	payservice "seatsaga/internal/payments/service"
	"seatsaga/internal/reservations/handler"
	"seatsaga/internal/reservations/repository"
	"seatsaga/internal/reservations/saga"
	"seatsaga/internal/reservations/validator"
	"seatsaga/pkg/app"
	"seatsaga/pkg/client"
	"seatsaga/pkg/config"
	"seatsaga/pkg/contracts"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/middleware"
)

const ServiceName = "reservations"

// collaborators gathers what the orchestrator talks to. A collaborator that
// runs in this process also contributes its routes and fault profile;
// a remote one is toggled on its own service.
type collaborators struct {
	ledger   saga.Ledger
	payments saga.PaymentGateway
	notifier saga.Notifier

	handlers contracts.Handlers
	profiles []*fault.Profile
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Reservations service")

	application := app.NewApplication(cfg)

	c := &collaborators{}
	c.initLedger(cfg)
	c.initPayments(cfg)
	application.OnShutdown(c.initNotifier(cfg))

	storeProfile := fault.NewProfile("store")
	c.profiles = append(c.profiles, storeProfile)

	store := bootstrap.Store(cfg)
	orchestrator := saga.NewOrchestrator(
		c.ledger,
		c.payments,
		repository.WithFaults(store, storeProfile),
		c.notifier,
		policy(cfg),
		cfg.Log,
	)

	controller := admission.NewController(cfg.MaxInFlight)
	reservationHandler := handler.NewReservationHandler(
		orchestrator,
		store,
		validator.NewReservationValidator(cfg.Log),
		middleware.Admission(controller, cfg.Log),
		cfg.Log,
	)

	handlers := append(contracts.Handlers{reservationHandler, fault.NewHandler(cfg.Log, c.profiles...)}, c.handlers...)
	application.SetApp(handlers, bootstrap.Checks(cfg)...)
	application.Run()
}

func policy(cfg *config.Config) saga.Policy {
	return saga.Policy{
		InventoryTimeout: cfg.InventoryTimeout,
		PaymentTimeout:   cfg.PaymentTimeout,
		StoreTimeout:     cfg.StoreTimeout,
		StoreAttempts:    cfg.StoreAttempts,
		StoreRetryDelay:  cfg.StoreRetryDelay,
		NotifyTimeout:    cfg.NotifyTimeout,
	}
}

func (c *collaborators) initLedger(cfg *config.Config) {
	if cfg.InventoryURL != "" {
		cfg.Log.Info("Using remote inventory", "url", cfg.InventoryURL)
		c.ledger = client.NewInventoryClient(cfg.InventoryURL)
		return
	}
	profile := fault.NewProfile("inventory")
	inventory := invservice.NewInventoryService(bootstrap.Ledger(cfg), profile, cfg.Log)
	c.ledger = inventory
	c.profiles = append(c.profiles, profile)
	c.handlers = append(c.handlers, invhandler.NewInventoryHandler(inventory, cfg.Log))
}

func (c *collaborators) initPayments(cfg *config.Config) {
	if cfg.PaymentsURL != "" {
		cfg.Log.Info("Using remote payments", "url", cfg.PaymentsURL)
		c.payments = client.NewPaymentsClient(cfg.PaymentsURL)
		return
	}
	profile := fault.NewProfile("payments")
	payments := payservice.NewPaymentService(profile, cfg.Log)
	c.payments = payments
	c.profiles = append(c.profiles, profile)
	c.handlers = append(c.handlers, payhandler.NewPaymentHandler(payments, cfg.Log))
}

// initNotifier returns the function that releases the notification transport.
func (c *collaborators) initNotifier(cfg *config.Config) func() {
	if cfg.NotificationsURL != "" {
		cfg.Log.Info("Using remote notifications", "url", cfg.NotificationsURL)
		c.notifier = client.NewNotificationsClient(cfg.NotificationsURL)
		return func() {}
	}
	publisher, closeFn := bootstrap.Publisher(cfg)
	profile := fault.NewProfile("notifications")
	notifications := notifservice.NewNotificationService(publisher, profile, cfg.Log)
	c.notifier = notifications
	c.profiles = append(c.profiles, profile)
	c.handlers = append(c.handlers, notifhandler.NewNotificationHandler(notifications, cfg.Log))
	return closeFn
}
